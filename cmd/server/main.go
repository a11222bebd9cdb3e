// main wires high-level dependencies, exposes the webhook endpoint, and
// keeps the server lifecycle small. Business logic lives in the gate
// packages.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"gatekeeper/internal/audit"
	"gatekeeper/internal/gate/cooldown"
	"gatekeeper/internal/gate/dispatch"
	"gatekeeper/internal/gate/lifecycle"
	"gatekeeper/internal/gate/moderation"
	"gatekeeper/internal/gate/oracle"
	"gatekeeper/internal/gate/permcheck"
	"gatekeeper/internal/gate/verifier"
	"gatekeeper/internal/platform/config"
	"gatekeeper/internal/platform/httpserver"
	"gatekeeper/internal/platform/logger"
	"gatekeeper/internal/platform/metrics"
	"gatekeeper/internal/telegram"
	httptransport "gatekeeper/internal/transport/http"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		// Missing credentials are the one fatal configuration failure.
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	spaces := cfg.Spaces()

	client, err := telegram.New(cfg.BotToken, log)
	if err != nil {
		log.Error("bot startup failed", "error", err)
		os.Exit(1)
	}

	auditStore, err := audit.NewFileStore(cfg.AuditLogPath)
	if err != nil {
		log.Error("audit log open failed", "path", cfg.AuditLogPath, "error", err)
		os.Exit(1)
	}
	defer auditStore.Close()

	notifier, err := audit.NewOperatorNotifier(client, spaces.Operator.ID)
	if err != nil {
		log.Error("notifier setup failed", "error", err)
		os.Exit(1)
	}
	sink, err := audit.New(auditStore, notifier, log)
	if err != nil {
		log.Error("audit sink setup failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	janitor := lifecycle.New(client, m, log)
	defer janitor.Close()

	membership, err := oracle.New(client, log)
	if err != nil {
		log.Error("oracle setup failed", "error", err)
		os.Exit(1)
	}

	verify, err := verifier.New(verifier.Deps{
		Oracle:          membership,
		Cooldown:        cooldown.New(cfg.VerifyCooldown),
		Messenger:       client,
		Invites:         client,
		Evictor:         client,
		Audit:           sink,
		Notifier:        notifier,
		Janitor:         janitor,
		Metrics:         m,
		Logger:          log,
		Spaces:          spaces,
		NoticeTTL:       cfg.NoticeTTL,
		ConfirmAttempts: cfg.ConfirmAttempts,
		ConfirmInterval: cfg.ConfirmInterval,
	})
	if err != nil {
		log.Error("verifier setup failed", "error", err)
		os.Exit(1)
	}

	filter, err := moderation.New(membership, client, sink, m, log, spaces)
	if err != nil {
		log.Error("moderation setup failed", "error", err)
		os.Exit(1)
	}

	dispatcher, err := dispatch.New(verify, filter, log)
	if err != nil {
		log.Error("dispatcher setup failed", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(dispatcher, log)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Report missing rights early; the process keeps serving either way.
		checker, err := permcheck.New(client, notifier, log, spaces.Entry)
		if err != nil {
			return err
		}
		if err := checker.Run(ctx); err != nil {
			log.Warn("permission self check did not complete", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting gatekeeper", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("gatekeeper stopped")
}
