// Package client implements the browser-side submission controller: field
// validation, debounced draft autosave, a local rate-limit ledger and
// retry-with-backoff delivery to the intake endpoint.
package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"bfluegel-contact/internal/bus"
	"bfluegel-contact/internal/config"
	"bfluegel-contact/internal/form"
	"bfluegel-contact/internal/i18n"
	"bfluegel-contact/internal/model"
	"bfluegel-contact/internal/ratelimit"
	"bfluegel-contact/internal/sched"
)

// Bus topics the controller publishes and subscribes to.
const (
	TopicToast           = "toast:show"
	TopicFieldErrors     = "form:errors"
	TopicDraftSaved      = "draft:autosaved"
	TopicSubmitted       = "contact:submitted"
	TopicLanguageChanged = "language:changed"
)

// Toast is the payload published on TopicToast.
type Toast struct {
	Level   string
	Message string
}

// Sentinel results of Submit. All three are normal rejections, not
// transport failures.
var (
	ErrBusy             = errors.New("a submission is already in flight")
	ErrValidationFailed = errors.New("validation failed")
	ErrRateLimited      = errors.New("local rate limit exceeded")
)

const userAgent = "bfluegel-contactctl/1.0"

// Controller owns the contact form lifecycle on the client side.
type Controller struct {
	cfg       config.ClientConfig
	storage   Storage
	transport Transport
	events    *bus.Bus
	log       *zap.Logger
	validator *form.Validator
	limiter   *ratelimit.Limiter
	debouncer *sched.Debouncer
	backoff   func() retry.Backoff
	now       func() time.Time

	busy     atomic.Bool
	mu       sync.Mutex
	draft    Draft
	clientID string
	lang     string
}

// Option configures a Controller.
type Option func(*Controller)

// WithBackoffFactory substitutes the retry backoff, so tests never sleep.
func WithBackoffFactory(factory func() retry.Backoff) Option {
	return func(c *Controller) { c.backoff = factory }
}

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(cfg config.ClientConfig, storage Storage, transport Transport,
	events *bus.Bus, log *zap.Logger, opts ...Option) (*Controller, error) {
	lang := cfg.Language
	if lang == "" {
		lang = i18n.German
	}

	c := &Controller{
		cfg:       cfg,
		storage:   storage,
		transport: transport,
		events:    events,
		log:       log,
		validator: form.NewValidator(form.DefaultRules(), lang),
		limiter: ratelimit.New(newLedgerStore(storage),
			cfg.RateLimitWindow, cfg.MaxSubmissions),
		debouncer: sched.NewDebouncer(cfg.AutosaveQuiet),
		now:       time.Now,
		lang:      lang,
	}
	c.backoff = func() retry.Backoff { return linearBackoff(c.cfg.RetryDelay) }
	for _, opt := range opts {
		opt(c)
	}

	if err := c.loadClientID(); err != nil {
		return nil, err
	}
	c.loadDraft()

	events.Subscribe(TopicLanguageChanged, func(payload any) {
		if lang, ok := payload.(string); ok {
			c.SetLanguage(lang)
		}
	})

	return c, nil
}

func (c *Controller) loadClientID() error {
	found, err := c.storage.Get(keyClientID, &c.clientID)
	if err != nil {
		return err
	}
	if !found || c.clientID == "" {
		c.clientID = uuid.NewString()
		return c.storage.Set(keyClientID, c.clientID)
	}
	return nil
}

func (c *Controller) loadDraft() {
	var draft Draft
	found, err := c.storage.Get(keyDraft, &draft)
	if err != nil {
		c.log.Warn("failed to load draft", zap.Error(err))
		return
	}
	if found && !draft.Empty() {
		c.mu.Lock()
		c.draft = draft
		c.mu.Unlock()
		c.events.Publish(TopicToast, Toast{Level: "info", Message: i18n.T(c.lang, i18n.KeyDraftLoaded)})
	}
}

// SetLanguage switches the language for validation messages and toasts.
func (c *Controller) SetLanguage(lang string) {
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
	c.validator.SetLanguage(lang)
}

// UpdateField records a field edit and schedules a debounced autosave.
func (c *Controller) UpdateField(field, value string) {
	c.mu.Lock()
	c.draft.SetField(field, value)
	c.mu.Unlock()
	c.debouncer.Trigger(c.autosave)
}

func (c *Controller) autosave() {
	if c.busy.Load() {
		return
	}
	c.mu.Lock()
	draft := c.draft
	draft.Language = c.lang
	draft.Timestamp = c.now().Format(time.RFC3339)
	draft.ClientID = c.clientID
	c.draft = draft
	c.mu.Unlock()

	if err := c.storage.Set(keyDraft, draft); err != nil {
		c.log.Warn("autosave failed", zap.Error(err))
		return
	}
	c.events.Publish(TopicDraftSaved, draft)
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// ClearDraft cancels any pending autosave and removes the persisted draft.
func (c *Controller) ClearDraft() error {
	c.debouncer.Cancel()
	c.mu.Lock()
	c.draft = Draft{}
	c.mu.Unlock()
	return c.storage.Delete(keyDraft)
}

// Submit validates the draft, enforces the local rate limit and delivers
// the submission with retries. Only one submission may be in flight;
// overlapping attempts are rejected, not queued.
func (c *Controller) Submit(ctx context.Context) (*model.Outcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	draft := c.draft
	lang := c.lang
	c.mu.Unlock()

	result := c.validator.Validate(draft.values())
	if !result.Valid {
		// Validation errors surface inline next to fields; no toast.
		c.events.Publish(TopicFieldErrors, result)
		return nil, ErrValidationFailed
	}

	allowed, err := c.limiter.Allow(keySubmissions)
	if err != nil {
		c.log.Warn("local rate limit check failed", zap.Error(err))
		allowed = true
	}
	if !allowed {
		c.toast("error", i18n.T(lang, i18n.KeyRateLimit))
		return nil, ErrRateLimited
	}

	sub := draft.toSubmission(c.now(), userAgent)
	sub.Language = lang

	outcome, err := c.submitWithRetry(ctx, sub)
	if err != nil {
		c.toast("error", c.errorMessage(lang, err))
		return outcome, err
	}

	if err := c.limiter.Record(keySubmissions); err != nil {
		c.log.Warn("failed to record submission", zap.Error(err))
	}
	if err := c.storage.Set(keyLastSubmission, c.now()); err != nil {
		c.log.Warn("failed to store last submission time", zap.Error(err))
	}
	if err := c.ClearDraft(); err != nil {
		c.log.Warn("failed to clear draft", zap.Error(err))
	}

	message := outcome.Message
	if message == "" {
		message = i18n.T(lang, i18n.KeySuccess)
	}
	c.toast("success", message)
	c.events.Publish(TopicSubmitted, outcome)
	return outcome, nil
}

// submitWithRetry retries transport and unknown-server failures with
// linear backoff. Validation and rate-limit outcomes are terminal:
// retrying cannot change them.
func (c *Controller) submitWithRetry(ctx context.Context, sub *model.Submission) (*model.Outcome, error) {
	var outcome *model.Outcome

	b := retry.WithMaxRetries(uint64(c.cfg.RetryAttempts-1), c.backoff())
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		o, err := c.transport.Post(ctx, sub)
		if err != nil {
			var oe *OutcomeError
			if errors.As(err, &oe) && isTerminal(oe.Outcome.Code) {
				outcome = oe.Outcome
				return err
			}
			c.log.Warn("submission attempt failed", zap.Error(err))
			return retry.RetryableError(err)
		}
		outcome = o
		return nil
	})
	return outcome, err
}

// isTerminal reports whether a server outcome code cannot be changed by
// retrying.
func isTerminal(code int) bool {
	switch code {
	case 400, 403, 405, 429:
		return true
	}
	return false
}

func (c *Controller) errorMessage(lang string, err error) string {
	var oe *OutcomeError
	if errors.As(err, &oe) {
		switch oe.Outcome.Code {
		case 429:
			return i18n.T(lang, i18n.KeyRateLimit)
		case 400:
			return i18n.T(lang, i18n.KeyValidation)
		}
		return i18n.T(lang, i18n.KeyGeneral)
	}
	return i18n.T(lang, i18n.KeyNetwork)
}

func (c *Controller) toast(level, message string) {
	c.events.Publish(TopicToast, Toast{Level: level, Message: message})
}

// linearBackoff pauses attempt-index × delay between attempts: 2s then 4s
// with the default 2s delay.
func linearBackoff(delay time.Duration) retry.Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n := atomic.AddInt64(&attempt, 1)
		return time.Duration(n) * delay, false
	})
}
