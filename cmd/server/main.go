package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mbcet/alumnimeet/internal/bot"
	"github.com/mbcet/alumnimeet/internal/config"
	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/handlers"
	"github.com/mbcet/alumnimeet/internal/logging"
	"github.com/mbcet/alumnimeet/internal/metrics"
	"github.com/mbcet/alumnimeet/internal/session"
	"github.com/mbcet/alumnimeet/internal/store"
	"github.com/mbcet/alumnimeet/internal/web"
)

type recordStore interface {
	form.RecordStore
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New(os.Stderr, "info", "console")
		boot.Fatal().Err(err).Msg("config")
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open record store")
	}
	defer rs.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hooks := m.Hooks()
	if cfg.TelegramEnabled() {
		n, err := bot.NewNotifier(cfg.TelegramToken, cfg.TelegramOrganiserChat, log)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram notifier")
		}
		hooks = form.MergeHooks(hooks, n.Hooks())
		log.Info().Int64("chat_id", cfg.TelegramOrganiserChat).Msg("organiser notifications enabled")
	}

	instrumented := m.InstrumentStore(rs)
	formOpts := []form.ControllerOption{
		form.WithVariant(form.Variant{AttendanceToggle: cfg.AttendanceToggle}),
		form.WithFollowUp(form.FollowUp{
			WhatsappGroupURL: cfg.WhatsappGroupURL,
			StayConnectedURL: cfg.StayConnectedURL,
			EventDate:        cfg.EventDate,
		}),
		form.WithLogger(log.With().Str("component", "form").Logger()),
		form.WithHooks(hooks),
		form.WithStoreTimeout(cfg.StoreTimeout),
	}
	sessions := session.NewRegistry(cfg.SessionTTL,
		func() *form.Controller { return form.New(instrumented, formOpts...) },
		session.WithCountObserver(m.SetActiveSessions),
		session.WithMaxSessions(cfg.MaxSessions),
	)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.Router(web.Options{
			Logger:   log,
			Sessions: sessions,
			Open:     cfg.RegistrationOpen,
			Event: handlers.EventInfo{
				Date:     cfg.EventDate,
				Venue:    cfg.EventVenue,
				Contacts: cfg.EventContacts,
			},
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).
			Str("store", cfg.StoreDriver).
			Bool("registration_open", cfg.RegistrationOpen).
			Msg("alumni meetup registration listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStore(ctx context.Context, cfg config.Config) (recordStore, error) {
	switch cfg.StoreDriver {
	case config.DriverFirestore:
		return store.OpenFirestore(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID, cfg.FirestoreCollection)
	default:
		return store.OpenSQLite(cfg.SQLitePath)
	}
}
