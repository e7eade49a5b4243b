package handlers

import (
	"net/http"
	"strings"

	"github.com/mbcet/alumnimeet/internal/form"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var errText = map[string]string{
	"invalid":     "Please correct the highlighted fields.",
	"bad_request": "The form could not be read. Please try again.",
	"closed":      "Registration is closed.",
}

// MakeFlash reads ?error= from the redirect and falls back to the form's own
// submission notice. Unknown keys are shown as-is.
func MakeFlash(r *http.Request, v form.View) *Flash {
	if raw := strings.TrimSpace(r.URL.Query().Get("error")); raw != "" {
		if t, ok := errText[strings.ToLower(raw)]; ok {
			return &Flash{Kind: "error", Text: t}
		}
		return &Flash{Kind: "error", Text: raw}
	}
	if v.Notice != "" {
		return &Flash{Kind: "error", Text: v.Notice}
	}
	return nil
}
