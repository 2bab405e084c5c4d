package http

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darolishes/bondbridge/internal/audit"
	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/entities"
)

// Default upper bound for a single import payload (10 MB).
const defaultMaxImportPayload = 10 * 1024 * 1024

// ImportResponse is the envelope for all import endpoint responses.
type ImportResponse struct {
	Success bool                    `json:"success"`
	Data    *entities.CardSet       `json:"data,omitempty"`
	Error   *cardimport.ImportError `json:"error,omitempty"`
}

// ImportController handles card set imports over HTTP.
type ImportController struct {
	orchestrator *cardimport.Orchestrator
	auditor      *audit.Auditor
	maxPayload   int64
}

// NewImportController creates a new ImportController. The auditor is
// optional; pass nil to disable payload auditing.
func NewImportController(orchestrator *cardimport.Orchestrator, auditor *audit.Auditor, maxPayload int64) *ImportController {
	if maxPayload <= 0 {
		maxPayload = defaultMaxImportPayload
	}
	return &ImportController{
		orchestrator: orchestrator,
		auditor:      auditor,
		maxPayload:   maxPayload,
	}
}

// Import handles POST /api/import.
//
// Accepts either a raw JSON body or a multipart form with a "file" field.
// The response carries the stored card set on success, or the import error
// with its full violation list on failure.
func (controller *ImportController) Import(c *gin.Context) {
	source, ok := controller.resolveSource(c)
	if !ok {
		return
	}

	run := controller.orchestrator.Import(c.Request.Context(), source)

	// The run buffers its events, but draining them keeps log output useful
	// and keeps this handler honest about attempt lifecycle.
	for progress := range run.Events() {
		log.Printf("[IMPORT] %s: stage %d/%d", progress.Status, progress.Current, progress.Total)
	}

	result := run.Result()
	if result.Success() {
		c.IndentedJSON(http.StatusCreated, ImportResponse{Success: true, Data: result.Set})
		return
	}

	c.IndentedJSON(statusForError(result.Err.Code), ImportResponse{Success: false, Error: result.Err})
}

// resolveSource builds the import source from the request, preferring an
// uploaded file over a raw body. Responds with 400 and returns false when
// no usable payload is present.
func (controller *ImportController) resolveSource(c *gin.Context) (cardimport.FileSource, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, controller.maxPayload)

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			controller.rejectPayload(c, "could not read uploaded file")
			return nil, false
		}
		controller.auditPayload(data)
		return &cardimport.TextSource{
			Label: header.Filename,
			Data:  data,
			Via:   entities.SourceKindFile,
		}, true
	}

	data, err := c.GetRawData()
	if err != nil {
		controller.rejectPayload(c, "could not read request body")
		return nil, false
	}
	if len(data) == 0 {
		controller.rejectPayload(c, "request body is empty")
		return nil, false
	}

	controller.auditPayload(data)
	return &cardimport.TextSource{
		Label: "request body",
		Data:  data,
		Via:   entities.SourceKindAPI,
	}, true
}

func (controller *ImportController) rejectPayload(c *gin.Context, message string) {
	c.IndentedJSON(http.StatusBadRequest, ImportResponse{
		Success: false,
		Error: &cardimport.ImportError{
			Code:    cardimport.ErrCodeInvalidFormat,
			Message: message,
		},
	})
}

// auditPayload saves the raw payload before any validation runs, so
// rejected imports leave a trail too.
func (controller *ImportController) auditPayload(data []byte) {
	if controller.auditor == nil {
		return
	}
	if _, err := controller.auditor.SaveRaw(data); err != nil {
		log.Printf("Failed to save audit payload: %v", err)
	}
}

// statusForError maps terminal import error codes to HTTP status codes.
func statusForError(code cardimport.ErrorCode) int {
	switch code {
	case cardimport.ErrCodeInvalidFormat, cardimport.ErrCodeSchemaViolation, cardimport.ErrCodeFileError:
		return http.StatusBadRequest
	case cardimport.ErrCodeDuplicateSet:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
