// Package main provides the entry point for the contact intake server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bfluegel-contact/internal/audit"
	"bfluegel-contact/internal/config"
	"bfluegel-contact/internal/handler"
	"bfluegel-contact/internal/logger"
	"bfluegel-contact/internal/mailer"
	"bfluegel-contact/internal/ratelimit"
)

// Run is the testable entrypoint for the server.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)
	log.Info("starting contact intake server", zap.String("addr", cfg.Addr))

	rateDir := cfg.Security.RateLimitDir
	if rateDir == "" {
		rateDir = filepath.Join(os.TempDir(), "contact_rate_limit")
	}
	rateStore, err := ratelimit.NewFileStore(rateDir)
	if err != nil {
		return err
	}
	limiter := ratelimit.New(rateStore, cfg.Security.RateLimitWindow, cfg.Security.RateLimit)

	auditLog, err := audit.New(cfg.Audit.LogFile)
	if err != nil {
		return err
	}

	mailCfg := mailer.SMTPConfig{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		ToAddress:   cfg.Mail.ToAddress,
		ToName:      cfg.Mail.ToName,
	}
	dispatcher := mailer.NewSMTP(mailCfg)

	validate := validator.New()
	_ = validate.RegisterValidation("nameformat", handler.NameValidator)
	_ = validate.RegisterValidation("phoneformat", handler.PhoneValidator)

	h := handler.New(logger.Named(log, "intake"), validate, limiter,
		dispatcher, auditLog, mailCfg, cfg.Security.ConsentToken)

	r := chi.NewRouter()
	r.Use(handler.CORS)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/healthz", h.Healthz)
	r.Post("/contact", h.Submit)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx); err != nil {
		os.Exit(1)
	}
}
