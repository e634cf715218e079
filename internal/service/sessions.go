package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/domain/model"
	"github.com/clearskies/climatewatch/internal/domain/session"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
)

// progressKeyPrefix namespaces the cross-process session progress snapshots.
const progressKeyPrefix = "monitor:progress:"

// SessionView is a point-in-time snapshot of a monitoring session, safe to
// serialize for API responses.
type SessionView struct {
	ID         string                   `json:"id"`
	Identifier string                   `json:"identifier"`
	Location   string                   `json:"location"`
	State      session.State            `json:"state"`
	Resumed    bool                     `json:"resumed"`
	Job        *model.MonitoringJob     `json:"job,omitempty"`
	LastStatus *model.JobStatusResponse `json:"last_status,omitempty"`
	Result     *model.ClimateResult     `json:"result,omitempty"`
	Error      string                   `json:"error,omitempty"`
	ErrorCode  string                   `json:"error_code,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// monitorSession is the mutable per-session record. All fields behind mu.
type monitorSession struct {
	mu sync.RWMutex

	id         string
	identifier string
	location   string
	machine    *session.Machine
	resumed    bool
	job        *model.MonitoringJob
	lastStatus *model.JobStatusResponse
	result     *model.ClimateResult
	errMsg     string
	errCode    string
	createdAt  time.Time
	updatedAt  time.Time

	paymentCh chan struct{}
	payOnce   sync.Once
	cancel    context.CancelFunc
	doneAt    time.Time
}

func (s *monitorSession) view() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionView{
		ID:         s.id,
		Identifier: s.identifier,
		Location:   s.location,
		State:      s.machine.Current(),
		Resumed:    s.resumed,
		Job:        s.job,
		LastStatus: s.lastStatus,
		Result:     s.result,
		Error:      s.errMsg,
		ErrorCode:  s.errCode,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Monitor *MonitorService      // Required: lifecycle orchestrator
	Cache   core.CacheRepository // Optional: progress snapshot mirror
	Config  config.MonitorConfig // Required: retention policy
	Logger  *slog.Logger         // Optional: structured logger
}

// SessionService is the in-memory registry of live monitoring sessions. Each
// session runs its own goroutine that drives the lifecycle state machine;
// the registry exposes snapshots and payment confirmation to the HTTP layer.
type SessionService struct {
	monitor *MonitorService
	cache   core.CacheRepository
	config  config.MonitorConfig
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*monitorSession

	runCtx   context.Context
	runReady chan struct{}
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) (*SessionService, error) {
	if opts.Monitor == nil {
		return nil, errors.New("MonitorService is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "session_service")
	}

	return &SessionService{
		monitor:  opts.Monitor,
		cache:    opts.Cache,
		config:   opts.Config,
		logger:   logger,
		sessions: make(map[string]*monitorSession),
		runReady: make(chan struct{}),
	}, nil
}

// Run anchors session goroutines to the service lifetime and reaps sessions
// past the retention window, cancelling any still parked mid-flight. It
// blocks until ctx is cancelled and returns nil on graceful shutdown.
func (s *SessionService) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.runCtx == nil {
		s.runCtx = ctx
		close(s.runReady)
	}
	s.mu.Unlock()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.dropExpired()
		}
	}
}

func (s *SessionService) dropExpired() {
	cutoff := time.Now().Add(-s.config.SessionRetention)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.RLock()
		terminal := sess.machine.Current().Terminal()
		done := terminal && !sess.doneAt.IsZero() && sess.doneAt.Before(cutoff)
		// Live polling refreshes updatedAt on every status observation, so
		// only sessions abandoned mid-flight (typically parked in
		// awaiting_payment) go idle past the retention window.
		abandoned := !terminal && sess.updatedAt.Before(cutoff)
		sess.mu.RUnlock()

		if !done && !abandoned {
			continue
		}
		if abandoned {
			sess.cancel()
		}
		delete(s.sessions, id)
	}
}

// Start begins a monitoring session. An empty identifier gets a freshly
// generated one; a provided identifier resumes that purchaser's most recent
// job when one exists. The returned view reflects the session after the
// create-or-resume step has settled.
func (s *SessionService) Start(ctx context.Context, identifier, location string) (SessionView, error) {
	if identifier == "" {
		identifier = session.NewIdentifier()
	}
	if !session.ValidIdentifier(identifier) {
		return SessionView{}, apperrors.ValidationField("identifier", "identifier must be exactly 16 digits")
	}
	if location == "" {
		return SessionView{}, apperrors.ValidationField("location", "location is required")
	}

	sess := &monitorSession{
		id:         uuid.NewString(),
		identifier: identifier,
		location:   location,
		machine:    session.NewMachine(),
		createdAt:  time.Now(),
		updatedAt:  time.Now(),
		paymentCh:  make(chan struct{}),
	}
	if err := sess.machine.GuardEntry(); err != nil {
		return SessionView{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "session entry guard")
	}

	// The create-or-resume step runs synchronously so the caller gets the
	// payment bundle (or a validation error) in the Start response.
	job, resumed, err := s.monitor.ResumeOrCreate(ctx, identifier, location)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	sess.job = job
	sess.resumed = resumed
	sess.updatedAt = time.Now()
	sess.mu.Unlock()

	runCtx, cancel := context.WithCancel(s.sessionContext())
	sess.cancel = cancel

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go s.drive(runCtx, sess)

	return sess.view(), nil
}

// sessionContext returns the context session goroutines hang off. Before Run
// is called sessions anchor to the background context.
func (s *SessionService) sessionContext() context.Context {
	select {
	case <-s.runReady:
		return s.runCtx
	default:
		return context.Background()
	}
}

// Get returns a snapshot of a session.
func (s *SessionService) Get(id string) (SessionView, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionView{}, apperrors.NotFoundf("session %s not found", id)
	}
	return sess.view(), nil
}

// ConfirmPayment funds the session's escrow and unblocks the polling phase.
// Confirming an already-paid session is a safe no-op.
func (s *SessionService) ConfirmPayment(ctx context.Context, id string) (SessionView, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionView{}, apperrors.NotFoundf("session %s not found", id)
	}

	sess.mu.RLock()
	state := sess.machine.Current()
	jobID := ""
	if sess.job != nil {
		jobID = sess.job.JobID
	}
	sess.mu.RUnlock()

	if state != session.StateAwaitingPayment {
		if state == session.StateProcessing || state == session.StateCompleted {
			// Payment already happened; report current progress instead of failing.
			return sess.view(), nil
		}
		return SessionView{}, apperrors.Conflict(fmt.Sprintf("session is %s, not awaiting payment", state))
	}

	job, err := s.monitor.ConfirmPayment(ctx, jobID)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	sess.job = job
	sess.updatedAt = time.Now()
	sess.mu.Unlock()

	sess.payOnce.Do(func() { close(sess.paymentCh) })
	return sess.view(), nil
}

// drive runs one session's lifecycle to a terminal state.
func (s *SessionService) drive(ctx context.Context, sess *monitorSession) {
	sess.mu.RLock()
	job := sess.job
	sess.mu.RUnlock()

	if job.AmountPaid {
		// Resumed paid job: go straight to polling.
		if err := s.transition(sess, session.StateProcessing); err != nil {
			s.fail(sess, err)
			return
		}
	} else {
		if err := s.transition(sess, session.StateAwaitingPayment); err != nil {
			s.fail(sess, err)
			return
		}
		select {
		case <-sess.paymentCh:
		case <-ctx.Done():
			s.fail(sess, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeCanceled, "session cancelled while awaiting payment"))
			return
		}
		if err := s.transition(sess, session.StateProcessing); err != nil {
			s.fail(sess, err)
			return
		}
	}

	status, err := s.monitor.PollUntilDone(ctx, job.JobID, func(st model.JobStatusResponse) {
		sess.mu.Lock()
		sess.lastStatus = &st
		sess.updatedAt = time.Now()
		sess.mu.Unlock()
		s.mirrorProgress(ctx, sess.identifier, &st)
	})
	if err != nil {
		s.fail(sess, err)
		return
	}

	if status.Status == model.JobStatusFailed {
		s.fail(sess, apperrors.Collaborator(fmt.Sprintf("job %s failed upstream", job.JobID)))
		return
	}

	result, err := s.monitor.FinalizeResult(status)
	if err != nil {
		s.fail(sess, err)
		return
	}

	sess.mu.Lock()
	sess.result = result
	sess.updatedAt = time.Now()
	sess.mu.Unlock()

	if err := s.transition(sess, session.StateCompleted); err != nil {
		s.fail(sess, err)
		return
	}
	s.finish(sess)

	if s.logger != nil {
		s.logger.Info("monitoring session completed",
			"session_id", sess.id, "job_id", job.JobID, "aqi", result.HealthAssess.AQIOverall)
	}
}

func (s *SessionService) transition(sess *monitorSession, next session.State) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.machine.Transition(next); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "session transition")
	}
	sess.updatedAt = time.Now()
	return nil
}

func (s *SessionService) fail(sess *monitorSession, err error) {
	sess.mu.Lock()
	_ = sess.machine.Transition(session.StateError)
	sess.errMsg = err.Error()
	if code := apperrors.GetCode(err); code != "" {
		sess.errCode = string(code)
	}
	sess.updatedAt = time.Now()
	sess.doneAt = time.Now()
	sess.mu.Unlock()

	if s.logger != nil {
		s.logger.Error("monitoring session failed", "session_id", sess.id, "error", err)
	}
}

func (s *SessionService) finish(sess *monitorSession) {
	sess.mu.Lock()
	sess.doneAt = time.Now()
	sess.mu.Unlock()
}

// mirrorProgress writes the latest status snapshot to the shared cache so
// other processes can observe live sessions. Best-effort.
func (s *SessionService) mirrorProgress(ctx context.Context, identifier string, st *model.JobStatusResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, progressKeyPrefix+identifier, payload, s.config.SessionRetention); err != nil && s.logger != nil {
		s.logger.Debug("progress mirror failed", "error", err)
	}
}
