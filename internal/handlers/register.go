package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/hlog"

	"github.com/mbcet/alumnimeet/internal/form"
)

type choice struct {
	Value    string
	Label    string
	Selected bool
}

func choices(opts []form.Option, selected string) []choice {
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, choice{Value: o.Value, Label: o.Label, Selected: o.Value == selected})
	}
	return out
}

func formData(s *Site, r *http.Request, c *form.Controller) map[string]any {
	v := c.View()

	years := make([]choice, 0, 24)
	for _, y := range form.YearOptions(s.now()) {
		years = append(years, choice{Value: y, Label: y, Selected: y == v.Fields.YearOfPassout})
	}
	contribs := make([]choice, 0, len(form.ContributionOptions))
	for _, o := range form.ContributionOptions {
		contribs = append(contribs, choice{Value: o.Value, Label: o.Label, Selected: v.Fields.HasContribution(o.Value)})
	}

	return map[string]any{
		"Title":         "Alumni Meetup • Register",
		"View":          v,
		"Flash":         MakeFlash(r, v),
		"Courses":       choices(form.CourseOptions, v.Fields.CourseStudied),
		"Years":         years,
		"HigherStudies": choices(form.HigherStudiesOptions, v.Fields.HigherStudies),
		"Foods":         choices(form.FoodOptions, v.Fields.FoodPreference),
		"Contributions": contribs,
		"MaxAccompany":  form.MaxAccompanyCount,
	}
}

// GET /register
func RegisterForm(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Open {
			s.render(w, r, http.StatusOK, "closed.tmpl", map[string]any{"Title": "Alumni Meetup • Registration closed"})
			return
		}
		c := s.viewController(r)
		s.render(w, r, http.StatusOK, "register.tmpl", formData(s, r, c))
	}
}

// POST /register
// The browser posts the whole form; only what changed is dispatched, then
// the form is submitted and the visitor is sent back to GET /register.
func RegisterSubmit(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Open {
			s.render(w, r, http.StatusForbidden, "closed.tmpl", map[string]any{"Title": "Alumni Meetup • Registration closed"})
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/register?error=bad_request", http.StatusSeeOther)
			return
		}
		c := s.controllerFor(w, r)
		if err := applyForm(c, r.PostForm); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		state := c.Submit(r.Context())
		hlog.FromRequest(r).Debug().Stringer("state", state).Msg("register submit")

		if state == form.StateEditing && len(c.View().Errors) > 0 {
			http.Redirect(w, r, "/register?error=invalid", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	}
}

// applyForm turns a posted form into edit events. Inputs inside a disabled
// fieldset are not posted at all, so missing text keys leave the stored
// value untouched.
func applyForm(c *form.Controller, post url.Values) error {
	for _, tok := range post[form.FieldContributions] {
		if !form.IsContribution(tok) {
			return fmt.Errorf("unknown contribution %q", tok)
		}
	}
	for _, name := range form.TextFields() {
		if err := form.CheckValue(name, post.Get(name)); err != nil {
			return err
		}
	}

	before := c.View().Fields
	for _, name := range form.TextFields() {
		if _, sent := post[name]; !sent {
			continue
		}
		if v := post.Get(name); v != before.Get(name) {
			c.SetField(name, v)
		}
	}

	if consent := post.Get(form.FieldConsent) != ""; consent != before.Consent {
		c.SetConsent(consent)
	}
	if c.Variant().AttendanceToggle {
		if attending := post.Get(form.FieldAttendingEvent) != ""; attending != before.AttendingEvent {
			c.SetAttendingEvent(attending)
		}
	}

	want := make(map[string]bool, len(post[form.FieldContributions]))
	for _, tok := range post[form.FieldContributions] {
		want[tok] = true
	}
	for _, o := range form.ContributionOptions {
		if want[o.Value] != before.HasContribution(o.Value) {
			c.ToggleContribution(o.Value)
		}
	}
	return nil
}

// POST /register/dismiss
func Dismiss(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, ok := s.existingController(r); ok {
			c.DismissConfirmation()
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	}
}

// POST /register/notice/dismiss
func DismissNotice(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, ok := s.existingController(r); ok {
			c.DismissNotice()
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	}
}
