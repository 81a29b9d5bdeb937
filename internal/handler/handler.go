// Package handler contains the HTTP intake pipeline for contact form
// submissions.
package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bfluegel-contact/internal/apperror"
	"bfluegel-contact/internal/audit"
	"bfluegel-contact/internal/clientip"
	"bfluegel-contact/internal/i18n"
	"bfluegel-contact/internal/mailer"
	"bfluegel-contact/internal/model"
	"bfluegel-contact/internal/ratelimit"
)

// NameValidator accepts letters, spaces, hyphens and dots, including German
// umlauts.
var NameValidator = func(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}

// PhoneValidator accepts digits, +, -, parentheses and spaces.
var PhoneValidator = func(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZäöüÄÖÜß\s\-.]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]+$`)
)

// spamTerms is the fixed denylist matched case-insensitively against the
// message and name.
var spamTerms = []string{"viagra", "casino", "lottery", "winner", "congratulations", "claim now"}

// maxLinkMentions caps literal "http" occurrences in the message body.
const maxLinkMentions = 3

// Handler runs the submission intake pipeline.
type Handler struct {
	log          *zap.Logger
	validate     *validator.Validate
	limiter      *ratelimit.Limiter
	dispatcher   mailer.Dispatcher
	auditLog     *audit.Log
	mailCfg      mailer.SMTPConfig
	consentToken string
	now          func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New creates a Handler. consentToken may be empty, disabling the token
// check entirely.
func New(log *zap.Logger, v *validator.Validate, limiter *ratelimit.Limiter,
	dispatcher mailer.Dispatcher, auditLog *audit.Log, mailCfg mailer.SMTPConfig,
	consentToken string, opts ...Option) *Handler {
	h := &Handler{
		log:          log,
		validate:     v,
		limiter:      limiter,
		dispatcher:   dispatcher,
		auditLog:     auditLog,
		mailCfg:      mailCfg,
		consentToken: consentToken,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz is a simple health check endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// MethodNotAllowed rejects anything that is not a submission-style request.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	h.respondError(w, apperror.MethodNotAllowed())
}

// Submit executes the intake pipeline, failing fast at the first violated
// stage.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, appErr := h.parseBody(r)
	if appErr != nil {
		h.log.Warn("failed to parse submission", zap.Error(appErr))
		h.respondError(w, appErr)
		return
	}

	if err := h.validate.Struct(sub); err != nil {
		appErr := apperror.FromValidation(err)
		h.log.Warn("validation failed", zap.String("detail", appErr.Message))
		h.respondError(w, appErr)
		return
	}

	sub.SubjectLabel = model.SubjectLabelFor(sub.Subject)

	actor := clientip.FromRequest(r)
	if appErr := h.securityChecks(sub, actor); appErr != nil {
		h.log.Warn("security check failed",
			zap.String("actor", actor),
			zap.String("error_id", appErr.ID),
			zap.Error(appErr))
		h.respondError(w, appErr)
		return
	}

	notification, err := mailer.BuildNotification(h.mailCfg, sub)
	if err == nil {
		err = h.dispatcher.Send(r.Context(), notification)
	}

	h.appendAudit(sub, actor, err == nil)

	if err != nil {
		appErr := apperror.Dispatch(err)
		h.log.Error("mail dispatch failed", zap.Error(err))
		h.respondError(w, appErr)
		return
	}

	h.log.Info("submission accepted",
		zap.String("actor", actor),
		zap.String("subject", sub.SubjectLabel))
	h.respond(w, http.StatusOK, model.Outcome{
		Success:   true,
		Message:   i18n.T(sub.Language, i18n.KeySuccess),
		Timestamp: h.now().Format(time.RFC3339),
	})
}

// parseBody accepts JSON or standard form encoding and trims every string
// value.
func (h *Handler) parseBody(r *http.Request) (*model.Submission, *apperror.AppError) {
	var sub model.Submission

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return nil, apperror.Malformed(err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, apperror.Malformed(err)
		}
		sub = model.Submission{
			Name:         r.PostFormValue("name"),
			Email:        r.PostFormValue("email"),
			Company:      r.PostFormValue("company"),
			Phone:        r.PostFormValue("phone"),
			Subject:      r.PostFormValue("subject"),
			Message:      r.PostFormValue("message"),
			Privacy:      truthy(r.PostFormValue("privacy")),
			ConsentToken: r.PostFormValue("consent_token"),
			Language:     r.PostFormValue("language"),
			Timestamp:    r.PostFormValue("timestamp"),
			UserAgent:    r.PostFormValue("user_agent"),
			PageURL:      r.PostFormValue("page_url"),
		}
	}

	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Company = strings.TrimSpace(sub.Company)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Subject = strings.TrimSpace(sub.Subject)
	sub.Message = strings.TrimSpace(sub.Message)
	if sub.UserAgent == "" {
		sub.UserAgent = r.UserAgent()
	}
	return &sub, nil
}

// securityChecks runs rate limiting, the spam heuristic and the optional
// consent token comparison. Each is independently fatal.
func (h *Handler) securityChecks(sub *model.Submission, actor string) *apperror.AppError {
	allowed, err := h.limiter.Take(actor)
	if err != nil {
		return apperror.Wrap(http.StatusInternalServerError, apperror.IDInternal,
			"internal server error", err)
	}
	if !allowed {
		return apperror.RateLimited()
	}

	haystack := strings.ToLower(sub.Message + " " + sub.Name)
	for _, term := range spamTerms {
		if strings.Contains(haystack, term) {
			return apperror.SpamRejected("denylist term: " + term)
		}
	}
	if strings.Count(strings.ToLower(sub.Message), "http") > maxLinkMentions {
		return apperror.SpamRejected("too many links in message")
	}

	if sub.ConsentToken != "" && h.consentToken != "" && sub.ConsentToken != h.consentToken {
		return apperror.InvalidConsent()
	}
	return nil
}

func (h *Handler) appendAudit(sub *model.Submission, actor string, success bool) {
	record := model.AuditRecord{
		Timestamp: h.now(),
		IP:        actor,
		UserAgent: sub.UserAgent,
		Email:     sub.Email,
		Subject:   sub.SubjectLabel,
		Success:   success,
	}
	if err := h.auditLog.Append(record); err != nil {
		h.log.Error("failed to append audit record", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, appErr *apperror.AppError) {
	h.respond(w, appErr.Code, model.Outcome{
		Success:   false,
		Error:     appErr.Message,
		ErrorID:   appErr.ID,
		Code:      appErr.Code,
		Timestamp: h.now().Format(time.RFC3339),
	})
}

func (h *Handler) respond(w http.ResponseWriter, status int, outcome model.Outcome) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		h.log.Error("unable to write response stream", zap.Error(err))
	}
}

func truthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "on", "1", "yes", "checked":
		return true
	}
	return false
}
