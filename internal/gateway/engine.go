// Package gateway turns raw gateway requests into USSD responses. It owns
// the per-turn lifecycle: locking, session loading, replay, routing,
// persistence, expiry and incident dispatch.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charly-com/safenaija/internal/incident"
	"github.com/charly-com/safenaija/internal/logger"
	"github.com/charly-com/safenaija/internal/session"
	"github.com/charly-com/safenaija/internal/ussd"
)

var ErrInvalidTurn = errors.New("gateway: invalid turn")

// Turn is one request from the USSD gateway.
type Turn struct {
	SessionID   string
	PhoneNumber string
	Text        string
	ServiceCode string
}

func (t Turn) Validate() error {
	switch {
	case t.SessionID == "":
		return fmt.Errorf("%w: missing sessionId", ErrInvalidTurn)
	case t.PhoneNumber == "":
		return fmt.Errorf("%w: missing phoneNumber", ErrInvalidTurn)
	case t.ServiceCode == "":
		return fmt.Errorf("%w: missing serviceCode", ErrInvalidTurn)
	}
	return nil
}

type Options struct {
	// GracePeriod is how long a finished session is kept for late retries.
	GracePeriod time.Duration
	// DispatchTimeout bounds incident delivery on the finalizing turn.
	DispatchTimeout time.Duration
}

type Engine struct {
	store  session.Store
	router *ussd.Router
	sink   incident.Sink
	locker *session.Locker
	opts   Options
	now    func() time.Time

	// deliveries still running after their turn stopped waiting
	inflight sync.WaitGroup
}

func NewEngine(store session.Store, router *ussd.Router, sink incident.Sink, opts Options) *Engine {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = 5 * time.Minute
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = 2 * time.Second
	}

	return &Engine{
		store:  store,
		router: router,
		sink:   sink,
		locker: session.NewLocker(),
		opts:   opts,
		now:    time.Now,
	}
}

// Process handles one turn. It never fails: every problem is logged and
// answered with the unavailable response.
func (e *Engine) Process(ctx context.Context, t Turn) (resp ussd.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("ussd turn panicked", map[string]any{
				"session_id": t.SessionID,
				"panic":      fmt.Sprint(rec),
			})
			resp = ussd.Unavailable()
		}
	}()

	if err := t.Validate(); err != nil {
		logger.Warn("rejected ussd turn", map[string]any{
			"session_id": t.SessionID,
			"error":      err.Error(),
		})
		return ussd.Unavailable()
	}

	unlock := e.locker.Lock(t.SessionID)
	defer unlock()

	sess, err := e.store.GetOrCreate(ctx, t.SessionID, t.PhoneNumber)
	if err != nil {
		logger.Error("session load failed, starting fresh", map[string]any{
			"session_id": t.SessionID,
			"error":      err.Error(),
		})
		sess = session.New(t.SessionID, t.PhoneNumber, e.now())
	}

	if prev, ok := e.replay(ctx, sess, t); ok {
		return prev
	}

	res := e.router.Route(ctx, sess, t.Text, t.ServiceCode)
	now := e.now()

	sess.ServiceCode = t.ServiceCode
	sess.Turns++
	sess.UpdatedAt = now
	sess.LastText = t.Text
	sess.LastServiceCode = t.ServiceCode
	sess.LastResponse = res.Response.Render()
	sess.LastAction = string(res.Response.Action)

	terminal := res.Response.IsTerminal()
	if terminal {
		sess.Completed = true
		sess.CompletedAt = &now
	}

	if err := e.store.Save(ctx, sess); err != nil {
		logger.Error("session save failed", map[string]any{
			"session_id": t.SessionID,
			"error":      err.Error(),
		})
	}

	logger.Debug("ussd turn", map[string]any{
		"session_id": t.SessionID,
		"phone":      logger.MaskPhone(t.PhoneNumber),
		"flow":       string(res.Flow),
		"step":       res.Step,
		"action":     string(res.Response.Action),
	})

	if terminal {
		e.scheduleExpiry(ctx, t.SessionID)
		e.dispatch(ctx, res)
	}

	return res.Response
}

// replay answers retransmitted turns and turns on a finished session from
// the stored response, so side effects run at most once.
func (e *Engine) replay(ctx context.Context, sess *session.Session, t Turn) (ussd.Response, bool) {
	if !sess.Completed && !sess.IsReplay(t.Text, t.ServiceCode) {
		return ussd.Response{}, false
	}

	prev, ok := ussd.ParseRendered(sess.LastResponse)
	if !ok {
		return ussd.Response{}, false
	}

	if sess.Completed {
		e.scheduleExpiry(ctx, t.SessionID)
	}

	logger.Debug("ussd turn replayed", map[string]any{
		"session_id": t.SessionID,
		"completed":  sess.Completed,
	})
	return prev, true
}

func (e *Engine) scheduleExpiry(ctx context.Context, sessionID string) {
	if err := e.store.ScheduleExpiry(ctx, sessionID, e.opts.GracePeriod); err != nil {
		logger.Error("session expiry scheduling failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

// dispatch delivers the turn's incidents and waits at most DispatchTimeout.
// Sinks that ignore their context keep running in the background.
func (e *Engine) dispatch(ctx context.Context, res ussd.Result) {
	if res.Alert == nil && res.Report == nil {
		return
	}

	// the caller hanging up must not abort delivery
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.DispatchTimeout)

	done := make(chan struct{})
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		defer close(done)
		defer cancel()
		e.deliver(ctx, res)
	}()

	timer := time.NewTimer(e.opts.DispatchTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		logger.Warn("incident dispatch still running after timeout", map[string]any{
			"timeout": e.opts.DispatchTimeout.String(),
			"alert":   res.Alert != nil,
			"report":  res.Report != nil,
		})
	}
}

func (e *Engine) deliver(ctx context.Context, res ussd.Result) {
	if res.Alert != nil {
		if err := e.sink.CreateAlert(ctx, *res.Alert); err != nil {
			logger.Error("alert dispatch failed", map[string]any{
				"reference":  res.Alert.Reference,
				"session_id": res.Alert.SessionID,
				"error":      err.Error(),
			})
		}
	}

	if res.Report != nil {
		if err := e.sink.CreateReport(ctx, *res.Report); err != nil {
			logger.Error("report dispatch failed", map[string]any{
				"reference":  res.Report.Reference,
				"session_id": res.Report.SessionID,
				"error":      err.Error(),
			})
		}
	}
}

// Wait blocks until background deliveries finish or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("gateway: waiting for deliveries: %w", ctx.Err())
	}
}

// Sessions lists every live session.
func (e *Engine) Sessions(ctx context.Context) ([]session.Session, error) {
	return e.store.List(ctx)
}

// Session returns one live session or session.ErrNotFound.
func (e *Engine) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.store.Get(ctx, sessionID)
}
