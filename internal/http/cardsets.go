package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/darolishes/bondbridge/internal/tasks"
)

// CardSetsController handles card set read, delete and maintenance endpoints.
type CardSetsController struct {
	store      CardSetStore
	taskClient *tasks.Client
}

// NewCardSetsController creates a new CardSetsController. The task client
// is optional; without it the recompute endpoint reports unavailability.
func NewCardSetsController(store CardSetStore, taskClient *tasks.Client) *CardSetsController {
	return &CardSetsController{
		store:      store,
		taskClient: taskClient,
	}
}

// GetAllCardSets handles GET /api/cardsets
func (controller *CardSetsController) GetAllCardSets(c *gin.Context) {
	sets, err := controller.store.ListCardSets()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"card_sets": sets,
		"count":     len(sets),
	})
}

// GetCardSet handles GET /api/cardsets/:setId
func (controller *CardSetsController) GetCardSet(c *gin.Context) {
	setID := c.Param("setId")

	set, err := controller.store.GetBySetID(setID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "card set not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, set)
}

// DeleteCardSet handles DELETE /api/cardsets/:setId
func (controller *CardSetsController) DeleteCardSet(c *gin.Context) {
	setID := c.Param("setId")

	if _, err := controller.store.GetBySetID(setID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "card set not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := controller.store.DeleteBySetID(setID); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"deleted": setID})
}

// RecomputeMetadata handles POST /api/cardsets/:setId/metadata/recompute
// Enqueues a background task that rebuilds the set's derived metadata.
func (controller *CardSetsController) RecomputeMetadata(c *gin.Context) {
	if controller.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is not enabled"})
		return
	}

	setID := c.Param("setId")
	if _, err := controller.store.GetBySetID(setID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "card set not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if _, err := controller.taskClient.Add(tasks.RecomputeMetadataTask{SetID: setID}).Save(); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusAccepted, gin.H{
		"queued": true,
		"set_id": setID,
	})
}
