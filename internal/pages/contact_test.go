package pages

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longMessage = strings.Repeat("Bonjour, ", 7)

func initContact(t *testing.T, reply replyFunc) *harness {
	t.Helper()
	h := newHarness(t, "contact", "/contact", newBackend(t, reply, nil))
	m, err := NewContact(h.env)
	require.NoError(t, err)
	require.NoError(t, m.(*Contact).Init(context.Background()))
	return h
}

func fillContact(t *testing.T, h *harness) {
	t.Helper()
	h.typeInto(t, "lastName", "Dupont")
	h.typeInto(t, "firstName", "Marie")
	h.typeInto(t, "email", "marie.dupont@example.be")
	h.typeInto(t, "message", longMessage)
}

func TestContactStartsDisabled(t *testing.T) {
	h := initContact(t, nil)
	send := h.byID(t, "sendMail")
	assert.True(t, send.Disabled())
	assert.True(t, send.HasClass("opacity-50"))
}

func TestContactEnablesSendWhenValid(t *testing.T) {
	h := initContact(t, nil)
	send := h.byID(t, "sendMail")

	h.typeInto(t, "lastName", "D")
	assert.True(t, h.byID(t, "lastName").HasClass("is-invalid"))

	fillContact(t, h)
	assert.True(t, h.byID(t, "lastName").HasClass("is-valid"))
	assert.False(t, send.Disabled())
	assert.False(t, send.HasClass("disabled"))

	h.typeInto(t, "email", "pas-un-mail")
	assert.True(t, send.Disabled())
}

func TestContactCounter(t *testing.T) {
	h := initContact(t, nil)
	counter := h.byID(t, "messageCounter")

	h.typeInto(t, "message", "Trop court")
	assert.Equal(t, "10/50 caractères minimum", counter.Text())
	assert.True(t, counter.HasClass("text-red-500"))

	h.typeInto(t, "message", longMessage)
	assert.True(t, counter.HasClass("text-green-500"))
	assert.False(t, counter.HasClass("text-red-500"))
}

func TestContactBlurWarnings(t *testing.T) {
	h := initContact(t, nil)
	ctx := context.Background()

	h.byID(t, "firstName").SetValue("M")
	h.doc.Dispatch(ctx, h.byID(t, "firstName"), "blur")
	h.byID(t, "email").SetValue("marie@")
	h.doc.Dispatch(ctx, h.byID(t, "email"), "blur")
	h.byID(t, "message").SetValue("Salut")
	h.doc.Dispatch(ctx, h.byID(t, "message"), "blur")

	assert.Equal(t, []string{
		"Le prénom doit contenir au moins 2 caractères",
		"Adresse email invalide",
		"Message trop court",
	}, h.toasts.titles("error"))
}

func TestContactSubmitIncomplete(t *testing.T) {
	h := initContact(t, nil)
	h.typeInto(t, "lastName", "Dupont")

	h.doc.Submit(context.Background(), h.byID(t, "contactForm"))
	assert.Empty(t, h.back.received())
	require.Len(t, h.toasts.all(), 1)
	assert.Equal(t, toast{"error", "Formulaire incomplet", "Le prénom doit contenir au moins 2 caractères"}, h.toasts.all()[0])
	assert.True(t, h.byID(t, "firstName").HasClass("is-invalid"))
}

func TestContactSubmitSends(t *testing.T) {
	h := initContact(t, nil)
	fillContact(t, h)

	assert.False(t, h.doc.Submit(context.Background(), h.byID(t, "contactForm")), "the form never posts itself")

	calls := h.back.received()
	require.Len(t, calls, 1)
	assert.Equal(t, "API/contact.php", calls[0].Endpoint)
	assert.Equal(t, "sendEmail", calls[0].action())
	assert.Equal(t, "Dupont", calls[0].Body["lastName"])
	assert.Equal(t, "marie.dupont@example.be", calls[0].Body["email"])
	assert.Equal(t, strings.TrimSpace(longMessage), calls[0].Body["message"])

	assert.Equal(t, []string{"Message envoyé avec succès"}, h.toasts.titles("success"))
	assert.Empty(t, h.byID(t, "lastName").Value())
	assert.Empty(t, h.byID(t, "message").Value())
	assert.False(t, h.byID(t, "lastName").HasClass("is-valid"))
	assert.Equal(t, "0/50 caractères minimum", h.byID(t, "messageCounter").Text())
	assert.Equal(t, "Envoyer", h.byID(t, "sendMail").Text())
	assert.True(t, h.byID(t, "sendMail").Disabled())
}

func TestContactSubmitRefused(t *testing.T) {
	h := initContact(t, func(backendCall) (int, string) {
		return http.StatusOK, envelope("error", "Service indisponible", nil)
	})
	fillContact(t, h)

	h.doc.Submit(context.Background(), h.byID(t, "contactForm"))
	assert.Equal(t, []string{"Service indisponible"}, h.toasts.titles("error"))
	assert.Equal(t, "Dupont", h.byID(t, "lastName").Value(), "values are kept on failure")
	assert.False(t, h.byID(t, "sendMail").Disabled())
}
