package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mbcet/alumnimeet/internal/form"
)

// eventRequest is the JSON body of POST /api/form/events.
type eventRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Token   string `json:"token"`
	Checked bool   `json:"checked"`
}

// toEvent checks the request against the controller so that nothing that
// would panic inside the form reaches it.
func (e eventRequest) toEvent(v form.Variant) (form.Event, error) {
	switch e.Type {
	case "setField":
		if !form.IsTextField(e.Name) {
			return nil, fmt.Errorf("unknown field %q", e.Name)
		}
		if err := form.CheckValue(e.Name, e.Value); err != nil {
			return nil, err
		}
		return form.SetField{Name: e.Name, Value: e.Value}, nil
	case "toggleContribution":
		if !form.IsContribution(e.Token) {
			return nil, fmt.Errorf("unknown contribution %q", e.Token)
		}
		return form.ToggleContribution{Token: e.Token}, nil
	case "setConsent":
		return form.SetConsent{Checked: e.Checked}, nil
	case "setAttendingEvent":
		if !v.AttendanceToggle {
			return nil, fmt.Errorf("this form has no attendance toggle")
		}
		return form.SetAttendingEvent{Checked: e.Checked}, nil
	case "submit":
		return form.Submit{}, nil
	case "dismissConfirmation":
		return form.DismissConfirmation{}, nil
	case "dismissNotice":
		return form.DismissNotice{}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", e.Type)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/form
func APIForm(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := s.viewController(r)
		writeJSON(w, http.StatusOK, c.View())
	}
}

// POST /api/form/events
func APIEvent(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Open {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": errText["closed"]})
			return
		}
		var req eventRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		c := s.controllerFor(w, r)
		ev, err := req.toEvent(c.Variant())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		c.Dispatch(r.Context(), ev)
		writeJSON(w, http.StatusOK, c.View())
	}
}
