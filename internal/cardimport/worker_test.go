package cardimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectResponses(t *testing.T, w *worker) []workerResponse {
	t.Helper()
	var responses []workerResponse
	for {
		select {
		case resp := <-w.responses:
			responses = append(responses, resp)
			if resp.Type != responseProgress {
				return responses
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for worker response")
		}
	}
}

func TestWorker_SuccessfulRun(t *testing.T) {
	w := newWorker(NewSanitizer())
	defer w.terminate()

	w.submit(workerRequest{Payload: []byte(validSetPayload()), CheckConflict: true})

	responses := collectResponses(t, w)
	require.Len(t, responses, 4)
	assert.Equal(t, StatusParsing, responses[0].Progress.Status)
	assert.Equal(t, StatusValidating, responses[1].Progress.Status)
	assert.Equal(t, StatusImporting, responses[2].Progress.Status)
	assert.Equal(t, responseComplete, responses[3].Type)
	require.NotNil(t, responses[3].Set)
	assert.Equal(t, "Deep Questions", responses[3].Set.Name)
}

func TestWorker_InvalidJSON(t *testing.T) {
	w := newWorker(NewSanitizer())
	defer w.terminate()

	w.submit(workerRequest{Payload: []byte(`{not json`)})

	responses := collectResponses(t, w)
	require.Len(t, responses, 2)
	assert.Equal(t, StatusParsing, responses[0].Progress.Status)
	assert.Equal(t, responseError, responses[1].Type)
	assert.Equal(t, ErrCodeInvalidFormat, responses[1].Err.Code)
}

func TestWorker_ConflictCheckedInsideUnit(t *testing.T) {
	w := newWorker(NewSanitizer())
	defer w.terminate()

	w.submit(workerRequest{
		Payload:       []byte(validSetPayload()),
		ExistingNames: []string{"deep questions"},
		CheckConflict: true,
	})

	responses := collectResponses(t, w)
	last := responses[len(responses)-1]
	require.Equal(t, responseError, last.Type)
	assert.Equal(t, ErrCodeDuplicateSet, last.Err.Code)
}

func TestWorker_TerminatedUnitDeliversNothing(t *testing.T) {
	w := newWorker(NewSanitizer())
	w.terminate()

	// Submitting after termination is dropped; nothing may arrive.
	w.submit(workerRequest{Payload: []byte(validSetPayload())})

	select {
	case resp := <-w.responses:
		t.Fatalf("terminated worker delivered %v", resp)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorker_TerminateIsIdempotent(t *testing.T) {
	w := newWorker(NewSanitizer())
	w.terminate()
	w.terminate()
}
