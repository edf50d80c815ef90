package pages

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myeasyevent_front/internal/auth"
	"myeasyevent_front/internal/browser"
)

const goodPassword = "Secr3t!pass"

func initLogin(t *testing.T, reply replyFunc, sse http.HandlerFunc) (*harness, *Login) {
	t.Helper()
	h := newHarness(t, "login", "/login", newBackend(t, reply, sse))
	m, err := NewLogin(h.env)
	require.NoError(t, err)
	p := m.(*Login)
	p.RetryDelay = 10 * time.Millisecond
	require.NoError(t, p.Init(context.Background()))
	t.Cleanup(func() { _ = p.Unmount(context.Background()) })
	return h, p
}

func deviceReply(c backendCall) (int, string) {
	return http.StatusOK, envelope("success", "Vérifiez vos mails", map[string]string{"token": "tok-1"})
}

func TestLoginRejectsInvalidInput(t *testing.T) {
	h, _ := initLogin(t, nil, nil)
	ctx := context.Background()

	h.fill(t, map[string]string{"email": "marie", "password": goodPassword})
	h.doc.Click(ctx, h.byID(t, "btnConnect"))

	h.fill(t, map[string]string{"email": "marie@example.be", "password": "short"})
	h.doc.Submit(ctx, h.byID(t, "loginForm"))

	assert.Empty(t, h.back.received())
	assert.Equal(t, []toast{
		{"error", "Adresse e-mail invalide", ""},
		{"error", "Mot de passe invalide", passwordHint},
	}, h.toasts.all())
}

func TestLoginWithSession(t *testing.T) {
	h, _ := initLogin(t, func(c backendCall) (int, string) {
		switch c.action() {
		case "connectEmailPass":
			return success(map[string]string{"session": "sess-1"})
		case "checkSession":
			return success(map[string]string{"email": "marie@example.be", "role": "user"})
		}
		return http.StatusBadRequest, "{}"
	}, nil)

	h.fill(t, map[string]string{"email": "marie@example.be", "password": goodPassword})
	h.doc.Click(context.Background(), h.byID(t, "btnConnect"))

	calls := h.back.received()
	require.Len(t, calls, 2)
	assert.Equal(t, "connectEmailPass", calls[0].action())
	assert.Equal(t, "marie@example.be", calls[0].Body["email"])
	assert.Equal(t, goodPassword, calls[0].Body["password"])
	assert.Equal(t, "checkSession", calls[1].action())
	assert.Equal(t, "sess-1", calls[1].Body["session"])

	assert.Equal(t, "sess-1", h.win.Cookie(auth.SessionCookie))
	assert.True(t, h.env.Session.LoggedIn())
	assert.Equal(t, []string{"/dashboard"}, h.nav.visited())
	assert.Equal(t, []string{"Connecté !"}, h.toasts.titles("success"))
}

func TestLoginRefused(t *testing.T) {
	h, _ := initLogin(t, func(backendCall) (int, string) {
		return http.StatusOK, envelope("error", "", nil)
	}, nil)

	h.fill(t, map[string]string{"email": "marie@example.be", "password": goodPassword})
	h.doc.Submit(context.Background(), h.byID(t, "loginForm"))

	assert.Equal(t, []string{"Identifiants incorrects"}, h.toasts.titles("error"))
	assert.Empty(t, h.nav.visited())
	assert.Empty(t, h.win.Cookie(auth.SessionCookie))
}

func TestLoginTransportFailure(t *testing.T) {
	h, _ := initLogin(t, func(backendCall) (int, string) {
		return http.StatusBadGateway, "upstream down"
	}, nil)

	h.fill(t, map[string]string{"email": "marie@example.be", "password": goodPassword})
	h.doc.Submit(context.Background(), h.byID(t, "loginForm"))
	assert.Equal(t, []string{"Impossible de se connecter"}, h.toasts.titles("error"))
}

func TestLoginDeviceConfirmation(t *testing.T) {
	var opens atomic.Int32
	sse := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok-1" {
			http.Error(w, "bad token", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		if opens.Add(1) == 1 {
			// The first confirmation is empty and must be retried.
			fmt.Fprint(w, ": keep-alive\n\nevent: validatedevice\ndata: \n\n")
			return
		}
		fmt.Fprint(w, "event: ping\ndata: x\n\nevent: validatedevice\ndata: ok\n\n")
	}
	h, p := initLogin(t, deviceReply, sse)

	h.fill(t, map[string]string{"email": "marie@example.be", "password": goodPassword})
	h.doc.Submit(context.Background(), h.byID(t, "loginForm"))

	assert.Equal(t, "tok-1", browser.Lookup(context.Background(), h.win.Local, auth.DeviceTokenKey))

	require.Eventually(t, func() bool {
		return len(h.nav.visited()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"/"}, h.nav.visited())
	assert.Equal(t, int32(2), opens.Load())

	require.Eventually(t, func() bool { return !p.Listening() }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		titles := h.toasts.titles("success")
		return len(titles) == 2 && titles[1] == "Appareil confirmé"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Vérifiez vos mails", h.toasts.titles("success")[0])
}

func TestLoginWaitingScreen(t *testing.T) {
	opened := make(chan struct{}, 1)
	sse := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case opened <- struct{}{}:
		default:
		}
		<-r.Context().Done()
	}
	h, p := initLogin(t, deviceReply, sse)

	h.fill(t, map[string]string{"email": "marie@example.be", "password": goodPassword})
	h.doc.Submit(context.Background(), h.byID(t, "loginForm"))

	assert.Contains(t, h.byID(t, "loginForm").Text(), "Vérifiez votre boîte mail")
	assert.Nil(t, h.doc.GetElementByID("email"), "the form fields are replaced by the waiting message")
	assert.True(t, p.Listening())

	select {
	case <-opened:
	case <-time.After(5 * time.Second):
		t.Fatal("device channel never opened")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Unmount(ctx))
	assert.False(t, p.Listening())
	assert.Empty(t, h.nav.visited())
}
