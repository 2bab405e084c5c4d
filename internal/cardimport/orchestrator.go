package cardimport

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/darolishes/bondbridge/internal/entities"
)

// CardSetStore receives the finished canonical set. The orchestrator hands
// each set off exactly once and retains no reference afterwards.
type CardSetStore interface {
	SaveCardSet(set *entities.CardSet) error
}

// ExistingSetNames supplies the read-only collection of imported set names
// consulted by the conflict check.
type ExistingSetNames interface {
	ListSetNames() ([]string, error)
}

// SessionRecorder persists import session records. A nil recorder disables
// session tracking.
type SessionRecorder interface {
	Record(session *entities.ImportSession) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSanitizer overrides the default sanitizer, letting tests pin the
// clock and id generator.
func WithSanitizer(s *Sanitizer) Option {
	return func(o *Orchestrator) { o.sanitizer = s }
}

// WithSessionRecorder enables import session tracking.
func WithSessionRecorder(r SessionRecorder) Option {
	return func(o *Orchestrator) { o.sessions = r }
}

// WithoutConflictCheck disables the duplicate-name check, for re-imports
// of a set the caller knows exists.
func WithoutConflictCheck() Option {
	return func(o *Orchestrator) { o.checkConflict = false }
}

// Orchestrator drives the import pipeline end to end. Construct one per
// use with its collaborators injected; it holds no state between attempts
// beyond the handle to the currently running worker.
type Orchestrator struct {
	store         CardSetStore
	names         ExistingSetNames
	sessions      SessionRecorder
	sanitizer     *Sanitizer
	checkConflict bool

	mu      sync.Mutex
	current *worker
}

// NewOrchestrator creates an orchestrator that validates against the sets
// known to names and hands completed sets to store.
func NewOrchestrator(store CardSetStore, names ExistingSetNames, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:         store,
		names:         names,
		sanitizer:     NewSanitizer(),
		checkConflict: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ImportResult is the caller-facing terminal value of one attempt.
type ImportResult struct {
	Set *entities.CardSet `json:"data,omitempty"`
	Err *ImportError      `json:"error,omitempty"`
}

// Success reports whether the import produced a stored canonical set.
func (r ImportResult) Success() bool {
	return r.Err == nil
}

// Run is one import attempt: a lazy, finite, non-restartable stream of
// progress events terminating in a single result. Events is buffered for
// the whole stage sequence, so a caller that ignores it leaks nothing.
type Run struct {
	events chan ImportProgress
	done   chan struct{}
	result ImportResult
}

// Events returns the progress stream. It is closed after the terminal
// event; an attempt abandoned via Reset closes it without one.
func (r *Run) Events() <-chan ImportProgress {
	return r.events
}

// Result blocks until the attempt finished and returns its terminal value.
func (r *Run) Result() ImportResult {
	<-r.done
	return r.result
}

// Import starts one attempt against the given source. Stages run inside a
// fresh background worker; the returned Run observes them. Starting a new
// import while one is in flight terminates the previous worker first.
func (o *Orchestrator) Import(ctx context.Context, source FileSource) *Run {
	run := &Run{
		events: make(chan ImportProgress, pipelineStages+2),
		done:   make(chan struct{}),
	}
	go o.execute(ctx, source, run)
	return run
}

// Reset terminates any in-flight import. The abandoned run delivers no
// further progress or terminal events.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.current.terminate()
		o.current = nil
	}
}

func (o *Orchestrator) swapCurrent(w *worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.current.terminate()
	}
	o.current = w
}

func (o *Orchestrator) clearCurrent(w *worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == w {
		o.current = nil
	}
}

func (o *Orchestrator) execute(ctx context.Context, source FileSource, run *Run) {
	session := &entities.ImportSession{
		SourceKind: source.Kind(),
		Status:     entities.ImportStatusRunning,
		StartedAt:  time.Now(),
	}

	var lastStatus Status
	lastCurrent := 0
	emit := func(p ImportProgress) {
		if !p.Status.canFollow(lastStatus) {
			return
		}
		if p.Current < lastCurrent {
			p.Current = lastCurrent
		}
		lastStatus = p.Status
		lastCurrent = p.Current
		run.events <- p
	}

	finish := func(result ImportResult) {
		o.recordSession(session, result)
		run.result = result
		close(run.events)
		close(run.done)
	}

	fail := func(ierr *ImportError) {
		emit(ImportProgress{
			Current: lastCurrent,
			Total:   pipelineStages,
			Status:  StatusError,
			Error:   ierr.Summary(),
		})
		finish(ImportResult{Err: ierr})
	}

	payload, err := source.Read(ctx)
	if err != nil {
		fail(&ImportError{
			Code:      ErrCodeFileError,
			Message:   "could not read import source: " + err.Error(),
			Cancelled: errors.Is(err, ErrSourceCancelled),
		})
		return
	}

	var existing []string
	if o.checkConflict && o.names != nil {
		existing, err = o.names.ListSetNames()
		if err != nil {
			log.Printf("[IMPORT] listing existing sets: %v", err)
			fail(&ImportError{Code: ErrCodeUnknown, Message: "could not load existing card sets"})
			return
		}
	}

	w := newWorker(o.sanitizer)
	o.swapCurrent(w)
	defer func() {
		w.terminate()
		o.clearCurrent(w)
	}()

	w.submit(workerRequest{
		Payload:       payload,
		ExistingNames: existing,
		CheckConflict: o.checkConflict,
	})

	for {
		// Termination wins over buffered responses: an abandoned attempt
		// must not deliver further events.
		select {
		case <-w.quit:
			o.finishAbandoned(session, run)
			return
		default:
		}

		select {
		case resp := <-w.responses:
			switch resp.Type {
			case responseProgress:
				session.Status = entities.ImportStatusRunning
				emit(resp.Progress)
			case responseError:
				fail(resp.Err)
				return
			case responseComplete:
				session.SetName = resp.Set.Name
				if err := o.store.SaveCardSet(resp.Set); err != nil {
					log.Printf("[IMPORT] storing card set %q: %v", resp.Set.Name, err)
					fail(&ImportError{Code: ErrCodeUnknown, Message: "could not store card set"})
					return
				}
				emit(ImportProgress{
					Current: pipelineStages,
					Total:   pipelineStages,
					Status:  StatusComplete,
				})
				finish(ImportResult{Set: resp.Set})
				return
			}
		case <-w.quit:
			o.finishAbandoned(session, run)
			return
		case <-ctx.Done():
			w.terminate()
		}
	}
}

// finishAbandoned closes out a run whose worker was terminated via Reset,
// a newer import, or context cancellation. No further progress or terminal
// events are delivered; Result still resolves for callers already waiting.
func (o *Orchestrator) finishAbandoned(session *entities.ImportSession, run *Run) {
	run.result = ImportResult{Err: &ImportError{
		Code:      ErrCodeFileError,
		Message:   "import cancelled",
		Cancelled: true,
	}}
	o.recordSession(session, run.result)
	close(run.events)
	close(run.done)
}

func (o *Orchestrator) recordSession(session *entities.ImportSession, result ImportResult) {
	if o.sessions == nil {
		return
	}
	now := time.Now()
	session.CompletedAt = &now
	if result.Success() {
		session.Status = entities.ImportStatusCompleted
		session.CardsProcessed = len(result.Set.Cards)
	} else {
		session.Status = entities.ImportStatusFailed
		session.ErrorCode = string(result.Err.Code)
		session.Errors = result.Err.Summary()
	}
	if err := o.sessions.Record(session); err != nil {
		log.Printf("[IMPORT] recording import session: %v", err)
	}
}
