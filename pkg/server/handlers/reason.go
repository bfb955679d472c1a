package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tempograph/tempograph"
	"github.com/tempograph/tempograph/pkg/allen"
	"github.com/tempograph/tempograph/pkg/server/dto"
	"github.com/tempograph/tempograph/pkg/types"
)

// ReasonHandler handles event ingestion and reasoning queries
type ReasonHandler struct {
	reasoner tempograph.Reasoner
}

// NewReasonHandler creates a new reason handler
func NewReasonHandler(r tempograph.Reasoner) *ReasonHandler {
	return &ReasonHandler{reasoner: r}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

// ReasonAboutEvents handles POST /api/v1/events
func (h *ReasonHandler) ReasonAboutEvents(c *gin.Context) {
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	events := make([]types.Event, len(req.Events))
	for i := range req.Events {
		events[i] = req.Events[i].Event()
	}

	result, err := h.reasoner.ReasonAboutEvents(c.Request.Context(), events)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "reasoning_failed",
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	c.JSON(http.StatusOK, dto.Result{Success: true, Data: result})
}

// AddRelation handles POST /api/v1/relations
func (h *ReasonHandler) AddRelation(c *gin.Context) {
	var req dto.AddRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	relation, err := allen.ParseRelation(req.Relation)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	inferences, err := h.reasoner.AddTemporalRelation(
		types.EventID(req.Event1), types.EventID(req.Event2), relation, req.ConfidenceOrDefault())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "relation_rejected",
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	c.JSON(http.StatusOK, dto.Result{Success: true, Data: dto.NewInferenceViews(inferences)})
}

// OrderEvents handles POST /api/v1/order
func (h *ReasonHandler) OrderEvents(c *gin.Context) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	ordered := h.reasoner.OrderEvents(dto.EventIDs(req.Events))
	out := make([]string, len(ordered))
	for i, id := range ordered {
		out[i] = string(id)
	}
	c.JSON(http.StatusOK, dto.Result{Success: true, Data: out})
}

// InferRelations handles GET /api/v1/relations/:event1/:event2
func (h *ReasonHandler) InferRelations(c *gin.Context) {
	event1 := c.Param("event1")
	event2 := c.Param("event2")
	if event1 == "" || event2 == "" {
		badRequest(c, "both event identifiers are required")
		return
	}

	set, ok := h.reasoner.InferRelations(types.EventID(event1), types.EventID(event2))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: "no relation known between the events",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, dto.Result{Success: true, Data: dto.RelationNames(set)})
}

// Consistency handles GET /api/v1/consistency
func (h *ReasonHandler) Consistency(c *gin.Context) {
	inconsistencies := h.reasoner.ValidateConsistency()
	views := make([]dto.InconsistencyView, len(inconsistencies))
	for i, inc := range inconsistencies {
		views[i] = dto.NewInconsistencyView(inc)
	}
	c.JSON(http.StatusOK, dto.ConsistencyResponse{
		Consistent:      len(inconsistencies) == 0,
		Inconsistencies: views,
	})
}

// Inferences handles GET /api/v1/inferences
func (h *ReasonHandler) Inferences(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Data:    dto.NewInferenceViews(h.reasoner.Inferences()),
	})
}

// Constraints handles GET /api/v1/constraints
func (h *ReasonHandler) Constraints(c *gin.Context) {
	constraints := h.reasoner.Constraints()
	views := make([]dto.ConstraintView, len(constraints))
	for i, constraint := range constraints {
		views[i] = dto.NewConstraintView(constraint)
	}
	c.JSON(http.StatusOK, dto.Result{Success: true, Data: views})
}
