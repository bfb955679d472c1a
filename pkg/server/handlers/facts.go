package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tempograph/tempograph"
	"github.com/tempograph/tempograph/pkg/server/dto"
	"github.com/tempograph/tempograph/pkg/types"
)

// FactHandler handles temporal fact requests
type FactHandler struct {
	reasoner tempograph.Reasoner
}

// NewFactHandler creates a new fact handler
func NewFactHandler(r tempograph.Reasoner) *FactHandler {
	return &FactHandler{reasoner: r}
}

// AddFact handles POST /api/v1/facts
func (h *FactHandler) AddFact(c *gin.Context) {
	var req dto.AddFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	stored, err := h.reasoner.AddTemporalFact(c.Request.Context(), req.Fact())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "fact_rejected",
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	c.JSON(http.StatusCreated, dto.Result{Success: true, Data: stored})
}

// GetFacts handles GET /api/v1/facts/:subject. The optional "at" query
// parameter selects a point in time (RFC 3339); it defaults to now.
func (h *FactHandler) GetFacts(c *gin.Context) {
	subject := c.Param("subject")
	if subject == "" {
		badRequest(c, "subject is required")
		return
	}

	var facts []*types.TemporalFact
	if at := c.Query("at"); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			badRequest(c, "at must be an RFC 3339 timestamp")
			return
		}
		facts = h.reasoner.GetFactsAtTime(types.EventID(subject), t)
	} else {
		facts = h.reasoner.GetCurrentFacts(types.EventID(subject))
	}

	c.JSON(http.StatusOK, dto.Result{Success: true, Data: facts})
}
