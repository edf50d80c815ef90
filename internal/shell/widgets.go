package shell

import (
	"myeasyevent_front/internal/dom"
)

func (r *Renderer) initBurgerMenu() {
	burger := r.doc.GetElementByID("burgerBtn")
	nav := r.doc.GetElementByID("mainNav")
	if burger == nil || nav == nil {
		return
	}

	burger.AddEventListener("click", func(*dom.Event) {
		nav.ToggleClass("hidden")
	})

	// Close the menu on any click outside of it.
	r.track(r.doc.AddEventListener("click", func(ev *dom.Event) {
		if nav.HasClass("hidden") || ev.Target == nil {
			return
		}
		if nav.Contains(ev.Target) || burger.Contains(ev.Target) {
			return
		}
		nav.AddClass("hidden")
	}))

	for _, link := range nav.QuerySelectorAll("a[data-spa]") {
		link.AddEventListener("click", func(*dom.Event) {
			nav.AddClass("hidden")
		})
	}
	r.logger.Debug("burger menu ready")
}

func (r *Renderer) initUserModal() {
	modal := r.doc.GetElementByID("userModal")
	toggle := r.doc.GetElementByID("userModalBtn")
	if modal == nil || toggle == nil {
		return
	}
	arrow := r.doc.GetElementByID("arrow")

	notConnected := r.doc.GetElementByID("notConnectedContent")
	connected := r.doc.GetElementByID("connectedContent")
	loggedIn := r.account != nil && r.account.LoggedIn()
	if notConnected != nil {
		if loggedIn {
			notConnected.AddClass("hidden")
		} else {
			notConnected.RemoveClass("hidden")
		}
	}
	if connected != nil {
		if loggedIn {
			connected.RemoveClass("hidden")
		} else {
			connected.AddClass("hidden")
		}
	}

	hide := func() {
		modal.AddClass("hidden")
		if arrow != nil {
			arrow.RemoveClass("rotate-180")
		}
	}

	toggle.AddEventListener("click", func(*dom.Event) {
		modal.ToggleClass("hidden")
		if arrow != nil {
			arrow.ToggleClass("rotate-180")
		}
	})
	if closer := r.doc.GetElementByID("closedModal"); closer != nil {
		closer.AddEventListener("click", func(*dom.Event) { hide() })
	}

	r.track(r.doc.AddEventListener("mousedown", func(ev *dom.Event) {
		if modal.HasClass("hidden") || ev.Target == nil {
			return
		}
		if modal.Contains(ev.Target) || toggle.Same(ev.Target) {
			return
		}
		hide()
	}))

	for id, to := range map[string]string{
		"loginBtn":     "/login",
		"registerBtn":  "/register",
		"dashboardBtn": "/dashboard",
	} {
		btn := r.doc.GetElementByID(id)
		if btn == nil {
			continue
		}
		to := to
		btn.AddEventListener("click", func(ev *dom.Event) {
			r.Go(ev.Context(), to)
			hide()
		})
	}

	if logout := r.doc.GetElementByID("logoutBtn"); logout != nil && r.account != nil {
		logout.AddEventListener("click", func(ev *dom.Event) {
			r.account.Logout(ev.Context(), r.nav)
			hide()
		})
	}
	r.logger.Debug("user modal ready", "logged_in", loggedIn)
}
