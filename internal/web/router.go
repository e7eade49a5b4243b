package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/mbcet/alumnimeet/internal/handlers"
	"github.com/mbcet/alumnimeet/internal/session"
)

//go:embed templates
var templateFS embed.FS

type Options struct {
	Logger   zerolog.Logger
	Sessions *session.Registry
	Open     bool
	Event    handlers.EventInfo
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

func Router(o Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(o.Logger))
	r.Use(requestIDField)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	pages, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	site := &handlers.Site{
		Templates: mustParseTemplates(pages),
		Pages:     pages,
		Sessions:  o.Sessions,
		Open:      o.Open,
		Event:     o.Event,
		Now:       o.Now,
	}

	r.Get("/", handlers.Home)
	r.Get("/healthz", handlers.Health)
	if o.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/register", handlers.RegisterForm(site))
	r.Post("/register", handlers.RegisterSubmit(site))
	r.Post("/register/dismiss", handlers.Dismiss(site))
	r.Post("/register/notice/dismiss", handlers.DismissNotice(site))

	r.Get("/api/form", handlers.APIForm(site))
	r.Post("/api/form/events", handlers.APIEvent(site))

	r.Get("/qr/confirmation.png", handlers.ConfirmationQR(site))

	return r
}

func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	ev := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

func mustParseTemplates(root fs.FS) *template.Template {
	funcs := template.FuncMap{
		"year": func() string { return time.Now().Format("2006") },
	}
	p := template.New("").Funcs(funcs)
	p = template.Must(p.ParseFS(root, "layouts/*.tmpl"))
	return p
}
