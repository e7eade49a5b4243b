package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/handlers"
	"github.com/mbcet/alumnimeet/internal/metrics"
	"github.com/mbcet/alumnimeet/internal/models"
	"github.com/mbcet/alumnimeet/internal/session"
)

type okStore struct{}

func (okStore) CreateRecord(context.Context, models.Registration) (string, error) { return "abc", nil }

func newServer(t *testing.T, open bool) (*httptest.Server, *http.Client) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sessions := session.NewRegistry(time.Hour, func() *form.Controller {
		return form.New(m.InstrumentStore(okStore{}), form.WithHooks(m.Hooks()))
	}, session.WithCountObserver(m.SetActiveSessions))

	srv := httptest.NewServer(Router(Options{
		Logger:   zerolog.Nop(),
		Sessions: sessions,
		Open:     open,
		Event:    handlers.EventInfo{Date: "27th December", Venue: "MBCET Campus", Contacts: []string{"Anu 9447000000"}},
		Gatherer: reg,
	}))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRouterHealthz(t *testing.T) {
	srv, client := newServer(t, true)
	resp, err := client.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body(t, resp))
}

func TestRouterRendersForm(t *testing.T) {
	srv, client := newServer(t, true)
	resp, err := client.Get(srv.URL + "/register")
	require.NoError(t, err)
	html := body(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, html, "27th December")
	assert.Contains(t, html, "Anu 9447000000")
	assert.Contains(t, html, `name="courseStudied"`)
	assert.Contains(t, html, "B.Tech Computer Science &amp; Engineering")
	assert.Contains(t, html, `value="guest-lecture"`)
	assert.Contains(t, html, `id="attendingEvent"`)
	assert.Contains(t, html, `<fieldset id="attendance" disabled hidden>`)
}

func TestRouterSubmitAndMetrics(t *testing.T) {
	srv, client := newServer(t, true)

	resp, err := client.PostForm(srv.URL+"/register", url.Values{})
	require.NoError(t, err)
	html := body(t, resp)
	assert.Contains(t, html, form.MsgNameRequired)
	assert.Contains(t, html, "Please correct the highlighted fields.")

	resp, err = client.PostForm(srv.URL+"/register", url.Values{
		"name":           {"Asha Menon"},
		"courseStudied":  {"mcse"},
		"yearOfPassout":  {"2015"},
		"designation":    {"Professor"},
		"email":          {"asha@example.com"},
		"whatsappNumber": {"9447741066"},
		"higherStudies":  {"no"},
		"consent":        {"yes"},
	})
	require.NoError(t, err)
	html = body(t, resp)
	assert.Contains(t, html, "Thank You!")
	assert.Contains(t, html, `src="/qr/confirmation.png"`)

	resp, err = client.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	out := body(t, resp)
	assert.Contains(t, out, `alumni_submissions_total{outcome="invalid"} 1`)
	assert.Contains(t, out, `alumni_submissions_total{outcome="succeeded"} 1`)
	assert.Contains(t, out, `alumni_invalid_fields_total{field="consent"} 1`)
	assert.Contains(t, out, "alumni_sessions_active 1")
	assert.True(t, strings.Contains(out, "alumni_store_create_seconds_count 1"))
}

func TestRouterClosed(t *testing.T) {
	srv, client := newServer(t, false)
	resp, err := client.Get(srv.URL + "/register")
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "Registration is closed")

	resp, err = client.PostForm(srv.URL+"/register", url.Values{"name": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
