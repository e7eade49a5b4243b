package handlers

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/models"
	"github.com/mbcet/alumnimeet/internal/session"
)

// Pages that print just enough of the view for assertions.
var testPages = fstest.MapFS{
	"layouts/base.tmpl": {Data: []byte(`{{define "base"}}[{{template "content" .}}]{{end}}`)},
	"pages/register.tmpl": {Data: []byte(`{{template "base" .}}{{define "content"}}` +
		`state={{.View.State}};name={{.View.Fields.Name}};` +
		`{{range $k, $v := .View.Errors}}err:{{$k}};{{end}}` +
		`{{with .View.Confirmation}}conf:{{.Title}};{{end}}` +
		`{{with .Flash}}flash:{{.Text}};{{end}}` +
		`{{range .Courses}}{{if .Selected}}course:{{.Value}};{{end}}{{end}}{{end}}`)},
	"pages/closed.tmpl": {Data: []byte(`{{template "base" .}}{{define "content"}}closed{{end}}`)},
}

type recordingStore struct {
	mu   sync.Mutex
	recs []models.Registration
	err  error
}

func (s *recordingStore) CreateRecord(_ context.Context, rec models.Registration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.recs = append(s.recs, rec)
	return "rec-1", nil
}

func (s *recordingStore) records() []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Registration(nil), s.recs...)
}

func (s *recordingStore) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

var errDown = errors.New("store down")

type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	store    *recordingStore
	sessions *session.Registry
}

func newTestEnv(t *testing.T, open bool, opts ...form.ControllerOption) *testEnv {
	t.Helper()
	store := &recordingStore{}
	reg := session.NewRegistry(time.Hour, func() *form.Controller { return form.New(store, opts...) })
	site := &Site{
		Templates: template.Must(template.New("").ParseFS(testPages, "layouts/*.tmpl")),
		Pages:     testPages,
		Sessions:  reg,
		Open:      open,
		Now:       func() time.Time { return time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC) },
	}

	r := chi.NewRouter()
	r.Get("/", Home)
	r.Get("/healthz", Health)
	r.Get("/register", RegisterForm(site))
	r.Post("/register", RegisterSubmit(site))
	r.Post("/register/dismiss", Dismiss(site))
	r.Post("/register/notice/dismiss", DismissNotice(site))
	r.Get("/api/form", APIForm(site))
	r.Post("/api/form/events", APIEvent(site))
	r.Get("/qr/confirmation.png", ConfirmationQR(site))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, store: store, sessions: reg}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) postForm(t *testing.T, path string, vals url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, vals)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) postJSON(t *testing.T, path, body string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func validPost() url.Values {
	return url.Values{
		"name":           {"Asha Menon"},
		"courseStudied":  {"cse"},
		"yearOfPassout":  {"2012"},
		"designation":    {"Engineering Manager"},
		"email":          {"asha@example.com"},
		"whatsappNumber": {"+91 94477 41066"},
		"higherStudies":  {"no"},
		"attendingEvent": {"yes"},
		"accompanyCount": {"2"},
		"foodPreference": {"vegetarian"},
		"contributions":  {"guest-lecture", "project-guidance"},
		"consent":        {"yes"},
	}
}
