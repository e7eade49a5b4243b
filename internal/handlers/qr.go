package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

// ConfirmationQR renders the follow-up link of the session's confirmation
// (WhatsApp group or stay-connected page) so it can be scanned from a phone.
func ConfirmationQR(s *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := s.existingController(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		conf := c.View().Confirmation
		if conf == nil || conf.LinkURL == "" {
			http.NotFound(w, r)
			return
		}

		png, err := qrcode.Encode(conf.LinkURL, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to generate qr", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
