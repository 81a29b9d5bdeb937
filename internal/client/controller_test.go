package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"bfluegel-contact/internal/bus"
	"bfluegel-contact/internal/config"
	"bfluegel-contact/internal/form"
	"bfluegel-contact/internal/model"
)

type scriptedTransport struct {
	mu       sync.Mutex
	attempts int
	script   []func() (*model.Outcome, error)
	last     *model.Submission
}

func (t *scriptedTransport) Post(_ context.Context, sub *model.Submission) (*model.Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = sub
	idx := t.attempts
	t.attempts++
	if idx >= len(t.script) {
		idx = len(t.script) - 1
	}
	return t.script[idx]()
}

func (t *scriptedTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

func success() func() (*model.Outcome, error) {
	return func() (*model.Outcome, error) {
		return &model.Outcome{Success: true, Message: "sent", Timestamp: "2025-06-01T12:00:00Z"}, nil
	}
}

func transportFailure() func() (*model.Outcome, error) {
	return func() (*model.Outcome, error) {
		return nil, errors.New("connection refused")
	}
}

func serverRejection(code int) func() (*model.Outcome, error) {
	return func() (*model.Outcome, error) {
		outcome := &model.Outcome{Success: false, Error: "rejected", Code: code}
		return outcome, &OutcomeError{Outcome: outcome}
	}
}

func testConfig() config.ClientConfig {
	return config.ClientConfig{
		Endpoint:        "http://localhost:8080/contact",
		RetryAttempts:   3,
		RetryDelay:      2 * time.Second,
		AutosaveQuiet:   10 * time.Millisecond,
		MaxSubmissions:  3,
		RateLimitWindow: time.Hour,
		Language:        "en",
	}
}

func instantBackoff() retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return time.Millisecond, false
	})
}

func newTestController(t *testing.T, transport Transport) (*Controller, *bus.Bus) {
	t.Helper()
	events := bus.New()
	c, err := New(testConfig(), NewMemStorage(), transport, events, zaptest.NewLogger(t),
		WithBackoffFactory(instantBackoff))
	require.NoError(t, err)
	return c, events
}

func fillValid(c *Controller) {
	c.UpdateField(form.FieldName, "Jane Doe")
	c.UpdateField(form.FieldEmail, "jane@example.com")
	c.UpdateField(form.FieldSubject, "project")
	c.UpdateField(form.FieldMessage, "Please build me a website, ten chars min")
	c.UpdateField(form.FieldPrivacy, "true")
}

func collectToasts(events *bus.Bus) *[]Toast {
	toasts := &[]Toast{}
	var mu sync.Mutex
	events.Subscribe(TopicToast, func(payload any) {
		if toast, ok := payload.(Toast); ok {
			mu.Lock()
			*toasts = append(*toasts, toast)
			mu.Unlock()
		}
	})
	return toasts
}

func TestSubmitSuccessFirstAttempt(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	c, events := newTestController(t, transport)
	toasts := collectToasts(events)
	fillValid(c)

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, transport.count())
	require.Len(t, *toasts, 1)
	assert.Equal(t, "success", (*toasts)[0].Level)

	draft := c.Draft()
	assert.True(t, draft.Empty(), "draft must be cleared after success")
}

func TestSubmitRetriesTransportFailures(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){
		transportFailure(), transportFailure(), success(),
	}}
	c, _ := newTestController(t, transport)
	fillValid(c)

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 3, transport.count(), "two failures then success means three attempts")
}

func TestSubmitExhaustsRetries(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){transportFailure()}}
	c, events := newTestController(t, transport)
	toasts := collectToasts(events)
	fillValid(c)

	outcome, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Contains(t, err.Error(), "connection refused", "last error surfaces verbatim")
	assert.Equal(t, 3, transport.count(), "exactly three attempts before giving up")
	require.Len(t, *toasts, 1)
	assert.Equal(t, "Network error. Please check your internet connection.", (*toasts)[0].Message)
}

func TestSubmitDoesNotRetryTerminalOutcomes(t *testing.T) {
	for _, code := range []int{400, 403, 405, 429} {
		transport := &scriptedTransport{script: []func() (*model.Outcome, error){serverRejection(code)}}
		c, _ := newTestController(t, transport)
		fillValid(c)

		_, err := c.Submit(context.Background())

		require.Error(t, err)
		assert.Equal(t, 1, transport.count(), "code %d must not be retried", code)
	}
}

func TestSubmitRetriesUnknownServerErrors(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){
		serverRejection(500), success(),
	}}
	c, _ := newTestController(t, transport)
	fillValid(c)

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 2, transport.count())
}

func TestSubmitValidationSuppressesToast(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	c, events := newTestController(t, transport)
	toasts := collectToasts(events)

	var fieldErrors []form.Result
	events.Subscribe(TopicFieldErrors, func(payload any) {
		if result, ok := payload.(form.Result); ok {
			fieldErrors = append(fieldErrors, result)
		}
	})

	c.UpdateField(form.FieldEmail, "not-an-email")
	_, err := c.Submit(context.Background())

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Zero(t, transport.count(), "no network call on validation failure")
	assert.Empty(t, *toasts, "validation errors surface inline, never as toasts")
	require.Len(t, fieldErrors, 1)
	assert.Contains(t, fieldErrors[0].Errors, form.FieldEmail)
}

func TestSubmitLocalRateLimit(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	c, events := newTestController(t, transport)
	toasts := collectToasts(events)

	for i := 0; i < 3; i++ {
		fillValid(c)
		_, err := c.Submit(context.Background())
		require.NoError(t, err, "submission %d should pass", i+1)
	}

	fillValid(c)
	_, err := c.Submit(context.Background())

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 3, transport.count(), "the blocked attempt never reaches the network")
	last := (*toasts)[len(*toasts)-1]
	assert.Equal(t, "error", last.Level)
	assert.Contains(t, last.Message, "too many messages")
}

func TestSubmitBusyFlag(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){
		func() (*model.Outcome, error) {
			close(started)
			<-release
			return &model.Outcome{Success: true}, nil
		},
	}}
	c, _ := newTestController(t, transport)
	fillValid(c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	<-started
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy, "overlapping submits are rejected, not queued")

	close(release)
	require.NoError(t, <-done)
}

func TestAutosaveDebounce(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	events := bus.New()
	storage := NewMemStorage()

	saved := make(chan Draft, 8)
	events.Subscribe(TopicDraftSaved, func(payload any) {
		if draft, ok := payload.(Draft); ok {
			saved <- draft
		}
	})

	c, err := New(testConfig(), storage, transport, events, zaptest.NewLogger(t),
		WithBackoffFactory(instantBackoff))
	require.NoError(t, err)

	// A burst of edits coalesces into one save carrying the final state.
	c.UpdateField(form.FieldName, "J")
	c.UpdateField(form.FieldName, "Ja")
	c.UpdateField(form.FieldName, "Jane")

	select {
	case draft := <-saved:
		assert.Equal(t, "Jane", draft.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("autosave never fired")
	}

	select {
	case draft := <-saved:
		t.Fatalf("burst must coalesce into one save, got a second with name %q", draft.Name)
	case <-time.After(100 * time.Millisecond):
	}

	var persisted Draft
	found, err := storage.Get(keyDraft, &persisted)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Jane", persisted.Name)
}

func TestDraftSurvivesRestart(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	storage := NewMemStorage()

	c1, err := New(testConfig(), storage, transport, bus.New(), zaptest.NewLogger(t))
	require.NoError(t, err)
	c1.UpdateField(form.FieldName, "Jane Doe")
	c1.UpdateField(form.FieldMessage, "work in progress")

	// Wait out the debounce quiet period.
	time.Sleep(50 * time.Millisecond)

	events := bus.New()
	toasts := collectToasts(events)
	c2, err := New(testConfig(), storage, transport, events, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", c2.Draft().Name)
	assert.Equal(t, "work in progress", c2.Draft().Message)
	require.Len(t, *toasts, 1, "loading a draft announces it")
	assert.Equal(t, "info", (*toasts)[0].Level)
}

func TestClientIDIsStable(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	storage := NewMemStorage()

	c1, err := New(testConfig(), storage, transport, bus.New(), zaptest.NewLogger(t))
	require.NoError(t, err)
	c2, err := New(testConfig(), storage, transport, bus.New(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NotEmpty(t, c1.clientID)
	assert.Equal(t, c1.clientID, c2.clientID)
}

func TestSubmissionCarriesMetadata(t *testing.T) {
	transport := &scriptedTransport{script: []func() (*model.Outcome, error){success()}}
	c, _ := newTestController(t, transport)
	fillValid(c)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, transport.last)
	assert.Equal(t, "en", transport.last.Language)
	assert.Equal(t, userAgent, transport.last.UserAgent)
	assert.NotEmpty(t, transport.last.Timestamp)
}

func TestLinearBackoffSchedule(t *testing.T) {
	b := linearBackoff(2 * time.Second)

	first, stop := b.Next()
	require.False(t, stop)
	assert.Equal(t, 2*time.Second, first)

	second, stop := b.Next()
	require.False(t, stop)
	assert.Equal(t, 4*time.Second, second)
}
