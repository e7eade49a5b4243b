package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/mbcet/alumnimeet/internal/session"
)

// EventInfo is the static meetup information shown above the form.
type EventInfo struct {
	Date     string
	Venue    string
	Contacts []string
}

// Site carries what every handler needs: parsed layouts, the page templates,
// the session registry and the registration switch.
type Site struct {
	Templates *template.Template
	Pages     fs.FS
	Sessions  *session.Registry
	Open      bool
	Event     EventInfo
	Now       func() time.Time
}

func (s *Site) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// render clones the layouts, adds the page and executes it.
func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	view, err := s.Templates.Clone()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := view.ParseFS(s.Pages, path.Join("pages", page)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("parse page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Event"] = s.Event

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.ExecuteTemplate(w, page, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("render page")
	}
}
