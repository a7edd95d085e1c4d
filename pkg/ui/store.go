package ui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/dmitrymomot/blogclient/pkg/logger"
)

// DefaultAlertTimeout is how long an alert stays visible.
const DefaultAlertTimeout = 4 * time.Second

// AlertType selects the alert style.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// Alert is the transient message shown to the user.
type Alert struct {
	Message string
	Type    AlertType
	Show    bool
}

// ConfirmRequest is a pending confirmation dialog.
type ConfirmRequest struct {
	Title   string
	Message string
}

// State is a snapshot of the store.
type State struct {
	Confirm *ConfirmRequest
	Alert   Alert
	Loading bool
}

type pendingConfirm struct {
	answer chan bool
	req    ConfirmRequest
}

// Store is the UI state. It is safe for concurrent use.
type Store struct {
	clock    clockwork.Clock
	logger   *slog.Logger
	onChange func(State)
	timeout  time.Duration

	mu       sync.Mutex
	loading  bool
	alert    Alert
	alertSeq uint64
	timer    clockwork.Timer
	confirm  *pendingConfirm
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock driving alert timeouts.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAlertTimeout overrides DefaultAlertTimeout for ShowAlert.
func WithAlertTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithOnChange registers fn to receive a snapshot after every change. fn runs
// outside the store lock and may call back into the store.
func WithOnChange(fn func(State)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:   clockwork.NewRealClock(),
		logger:  logger.NewNope(),
		timeout: DefaultAlertTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	if s.loading == loading {
		s.mu.Unlock()
		return
	}
	s.loading = loading
	s.unlockAndNotify()
}

// Loading reports the loading flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ShowAlert shows msg with the store's default timeout.
func (s *Store) ShowAlert(msg string, typ AlertType) {
	s.ShowAlertFor(msg, typ, s.timeout)
}

// ShowAlertFor shows msg and hides it after timeout. A zero timeout keeps the
// alert until HideAlert or the next alert replaces it.
func (s *Store) ShowAlertFor(msg string, typ AlertType, timeout time.Duration) {
	s.mu.Lock()
	s.stopTimerLocked()
	s.alertSeq++
	s.alert = Alert{Show: true, Message: msg, Type: typ}

	if timeout > 0 {
		seq := s.alertSeq
		s.timer = s.clock.AfterFunc(timeout, func() { s.expire(seq) })
	}
	s.logger.Debug("alert shown", slog.String("type", string(typ)), slog.Duration("timeout", timeout))
	s.unlockAndNotify()
}

// HideAlert hides the current alert.
func (s *Store) HideAlert() {
	s.mu.Lock()
	if !s.alert.Show {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.alertSeq++
	s.alert = Alert{}
	s.unlockAndNotify()
}

// Alert returns the current alert.
func (s *Store) Alert() Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

// expire hides the alert only if it is still the one that armed the timer.
func (s *Store) expire(seq uint64) {
	s.mu.Lock()
	if seq != s.alertSeq || !s.alert.Show {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.alert = Alert{}
	s.unlockAndNotify()
}

// Confirm opens a confirmation dialog and blocks until ResolveConfirm answers
// it or ctx ends. A newer Confirm replaces a pending one, which then returns
// ErrConfirmReplaced.
func (s *Store) Confirm(ctx context.Context, title, msg string) (bool, error) {
	p := &pendingConfirm{
		req:    ConfirmRequest{Title: title, Message: msg},
		answer: make(chan bool, 1),
	}

	s.mu.Lock()
	if prev := s.confirm; prev != nil {
		close(prev.answer)
	}
	s.confirm = p
	s.unlockAndNotify()

	select {
	case ok, open := <-p.answer:
		if !open {
			return false, ErrConfirmReplaced
		}
		return ok, nil
	case <-ctx.Done():
		s.mu.Lock()
		if s.confirm != p {
			s.mu.Unlock()
			return false, ctx.Err()
		}
		s.confirm = nil
		s.unlockAndNotify()
		return false, ctx.Err()
	}
}

// ResolveConfirm answers the pending dialog. It reports false when no dialog
// is pending.
func (s *Store) ResolveConfirm(ok bool) bool {
	s.mu.Lock()
	p := s.confirm
	if p == nil {
		s.mu.Unlock()
		return false
	}
	s.confirm = nil
	p.answer <- ok
	s.unlockAndNotify()
	return true
}

// PendingConfirm returns the open dialog, if any.
func (s *Store) PendingConfirm() (ConfirmRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirm == nil {
		return ConfirmRequest{}, false
	}
	return s.confirm.req, true
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) stateLocked() State {
	st := State{Loading: s.loading, Alert: s.alert}
	if s.confirm != nil {
		req := s.confirm.req
		st.Confirm = &req
	}
	return st
}

// unlockAndNotify releases the lock and reports the new state.
func (s *Store) unlockAndNotify() {
	st := s.stateLocked()
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(st)
	}
}
