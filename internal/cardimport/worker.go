package cardimport

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/darolishes/bondbridge/internal/entities"
)

// pipelineStages is the number of stages reported through Current/Total:
// parsing, validating, importing, complete.
const pipelineStages = 4

type responseType string

const (
	responseProgress responseType = "progress"
	responseComplete responseType = "complete"
	responseError    responseType = "error"
)

// workerRequest is the single message sent into a worker per attempt.
type workerRequest struct {
	Payload       []byte
	ExistingNames []string
	CheckConflict bool
}

// workerResponse is one message out of the worker: zero or more progress
// messages followed by exactly one complete or error message. The worker
// never touches storage; the orchestrator owns the store handoff.
type workerResponse struct {
	Type     responseType
	Progress ImportProgress
	Set      *entities.CardSet
	Err      *ImportError
}

// worker is the isolated execution unit for one import attempt. It shares
// no mutable state with its caller; only workerRequest/workerResponse
// values cross the boundary. After terminate it sends nothing further.
type worker struct {
	requests  chan workerRequest
	responses chan workerResponse
	quit      chan struct{}
	stop      sync.Once
	sanitizer *Sanitizer
}

func newWorker(sanitizer *Sanitizer) *worker {
	w := &worker{
		requests:  make(chan workerRequest, 1),
		responses: make(chan workerResponse, pipelineStages+1),
		quit:      make(chan struct{}),
		sanitizer: sanitizer,
	}
	go w.run()
	return w
}

// submit hands the request to the worker. Each worker serves exactly one
// request; a second submit on the same worker is a programming error.
func (w *worker) submit(req workerRequest) {
	select {
	case <-w.quit:
		return
	default:
	}
	select {
	case w.requests <- req:
	case <-w.quit:
	}
}

// terminate tears the worker down. Safe to call more than once; pending
// and future sends are dropped so an abandoned attempt stays silent.
func (w *worker) terminate() {
	w.stop.Do(func() {
		close(w.quit)
	})
}

func (w *worker) run() {
	select {
	case req := <-w.requests:
		w.process(req)
	case <-w.quit:
	}
}

func (w *worker) process(req workerRequest) {
	stage := StatusParsing
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[IMPORT] panic during %s stage: %v", stage, r)
			w.send(workerResponse{Type: responseError, Err: &ImportError{
				Code:    ErrCodeUnknown,
				Message: fmt.Sprintf("unexpected failure during %s", stage),
			}})
		}
	}()

	w.progress(1, StatusParsing)
	var decoded any
	if err := json.Unmarshal(req.Payload, &decoded); err != nil {
		w.send(workerResponse{Type: responseError, Err: &ImportError{
			Code:    ErrCodeInvalidFormat,
			Message: "payload is not valid JSON: " + err.Error(),
		}})
		return
	}

	stage = StatusValidating
	w.progress(2, StatusValidating)
	format := DetectFormat(decoded)
	result := Validate(decoded, format)
	if !result.Valid {
		w.send(workerResponse{Type: responseError, Err: &ImportError{
			Code:       ErrCodeSchemaViolation,
			Message:    fmt.Sprintf("card set failed validation with %d error(s)", len(result.Errors)),
			Violations: result.Errors,
		}})
		return
	}

	obj := decoded.(map[string]any)
	if format == FormatPackage {
		obj = AdaptLegacy(obj)
	}
	raw := Promote(obj)

	if req.CheckConflict {
		if conflict := CheckConflict(raw.Name, req.ExistingNames); conflict != nil {
			w.send(workerResponse{Type: responseError, Err: &ImportError{
				Code:    ErrCodeDuplicateSet,
				Message: conflict.Error(),
			}})
			return
		}
	}

	stage = StatusImporting
	w.progress(3, StatusImporting)
	set := w.sanitizer.Sanitize(raw)
	w.send(workerResponse{Type: responseComplete, Set: &set})
}

func (w *worker) progress(current int, status Status) {
	w.send(workerResponse{Type: responseProgress, Progress: ImportProgress{
		Current: current,
		Total:   pipelineStages,
		Status:  status,
	}})
}

// send delivers a response unless the worker has been terminated, in which
// case the message is dropped on the floor. The responses channel is
// buffered, so the quit check must come first or a dead worker could still
// land messages in the buffer.
func (w *worker) send(resp workerResponse) {
	select {
	case <-w.quit:
		return
	default:
	}
	select {
	case w.responses <- resp:
	case <-w.quit:
	}
}
