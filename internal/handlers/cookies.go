package handlers

import (
	"net/http"

	"github.com/mbcet/alumnimeet/internal/form"
)

const sessionCookie = "alumni_session"

func readSession(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// controllerFor returns the visitor's form, starting a session and setting the
// cookie when the request carries none (or an expired one). Only state-changing
// requests call it.
func (s *Site) controllerFor(w http.ResponseWriter, r *http.Request) *form.Controller {
	c, id, created := s.Sessions.Get(readSession(r))
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	}
	return c
}

// viewController is for read-only requests: it returns the visitor's form if
// there is one and a blank detached form otherwise, so GETs never start a
// session.
func (s *Site) viewController(r *http.Request) *form.Controller {
	if c, ok := s.existingController(r); ok {
		return c
	}
	return s.Sessions.Detached()
}

// existingController never starts a session.
func (s *Site) existingController(r *http.Request) (*form.Controller, bool) {
	id := readSession(r)
	if id == "" {
		return nil, false
	}
	return s.Sessions.Lookup(id)
}
