package api

import (
	"errors"
	"io"
	"net/http"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/scheduling"
	"fitbro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CycleHandler holds the cycle service dependency.
type CycleHandler struct {
	cycleService     service.CycleService
	defaultCycleDays int
}

// NewCycleHandler creates a new CycleHandler.
func NewCycleHandler(cycleService service.CycleService, defaultCycleDays int) *CycleHandler {
	return &CycleHandler{
		cycleService:     cycleService,
		defaultCycleDays: defaultCycleDays,
	}
}

// --- DTOs ---

// GenerateCyclesRequest optionally overrides the configured default length.
type GenerateCyclesRequest struct {
	DurationDays int `json:"duration_days" binding:"omitempty,min=1"`
}

type EditCycleDurationRequest struct {
	Duration int `json:"duration" binding:"required,min=1"`
}

type CycleResponse struct {
	ID          string             `json:"id"`
	MemberID    string             `json:"member_id"`
	CycleNumber int                `json:"cycle_number"`
	StartDate   domain.Date        `json:"start_date"`
	EndDate     domain.Date        `json:"end_date"`
	Duration    int                `json:"duration"`
	Status      domain.CycleStatus `json:"status"`
}

// MapCycleToResponse converts a domain.Cycle to CycleResponse DTO.
func MapCycleToResponse(cycle *domain.Cycle) CycleResponse {
	if cycle == nil {
		return CycleResponse{}
	}
	return CycleResponse{
		ID:          cycle.ID.Hex(),
		MemberID:    cycle.MemberID.Hex(),
		CycleNumber: cycle.CycleNumber,
		StartDate:   cycle.StartDate,
		EndDate:     cycle.EndDate,
		Duration:    cycle.Duration,
		Status:      cycle.Status,
	}
}

func MapCyclesToResponse(cycles []domain.Cycle) []CycleResponse {
	responses := make([]CycleResponse, len(cycles))
	for i, c := range cycles {
		responses[i] = MapCycleToResponse(&c)
	}
	return responses
}

// abortWithCycleError maps service/scheduling errors to HTTP statuses.
func abortWithCycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrCycleNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMemberNotInGym):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, scheduling.ErrInvalidRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduling.ErrMembershipExhausted),
		errors.Is(err, service.ErrCyclesExist),
		errors.Is(err, service.ErrActiveCycleExists):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process cycle operation.")
	}
}

// --- Handler Methods ---

// GetMemberCycles godoc
// @Summary List a member's cycles
// @Description Returns the member's live cycle sequence, soft-deleted cycles
// @Description filtered out and statuses derived from today's date.
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {array} CycleResponse
// @Router /members/{memberId}/cycles [get]
func (h *CycleHandler) GetMemberCycles(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	cycles, err := h.cycleService.ListCycles(c.Request.Context(), tenant, memberID)
	if err != nil {
		abortWithCycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCyclesToResponse(cycles))
}

// GenerateCycles godoc
// @Summary Partition a member's membership window into cycles
// @Tags Cycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param request body GenerateCyclesRequest false "Optional duration override"
// @Success 201 {array} CycleResponse
// @Failure 409 {object} gin.H "Member already has cycles"
// @Router /members/{memberId}/cycles/generate [post]
func (h *CycleHandler) GenerateCycles(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}
	// Body is optional; an empty body means "use the configured default".
	var req GenerateCyclesRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	duration := req.DurationDays
	if duration == 0 {
		duration = h.defaultCycleDays
	}

	cycles, err := h.cycleService.GenerateCycles(c.Request.Context(), tenant, memberID, duration)
	if err != nil {
		abortWithCycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapCyclesToResponse(cycles))
}

// AddCycle godoc
// @Summary Append the next contiguous cycle
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 201 {object} CycleResponse
// @Failure 409 {object} gin.H "Membership exhausted or active cycle exists"
// @Router /members/{memberId}/cycles [post]
func (h *CycleHandler) AddCycle(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	memberID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid member ID format.")
		return
	}

	cycle, err := h.cycleService.AddCycle(c.Request.Context(), tenant, memberID, h.defaultCycleDays)
	if err != nil {
		abortWithCycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapCycleToResponse(cycle))
}

// EditCycleDuration godoc
// @Summary Edit a cycle's duration and re-sequence the cycles after it
// @Description The edited cycle keeps its start date; every following cycle
// @Description shifts so the sequence stays contiguous and ends no later than
// @Description the membership end date. Returns the full updated sequence.
// @Tags Cycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cycle ID"
// @Param request body EditCycleDurationRequest true "New duration in days"
// @Success 200 {array} CycleResponse
// @Router /cycles/{id}/duration [put]
func (h *CycleHandler) EditCycleDuration(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	cycleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cycle ID format.")
		return
	}
	var req EditCycleDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cycles, err := h.cycleService.EditCycleDuration(c.Request.Context(), tenant, cycleID, req.Duration)
	if err != nil {
		abortWithCycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapCyclesToResponse(cycles))
}

// SoftDeleteCycle godoc
// @Summary Soft-delete a cycle
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cycle ID"
// @Success 204 "Deleted"
// @Router /cycles/{id}/delete [put]
func (h *CycleHandler) SoftDeleteCycle(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	cycleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cycle ID format.")
		return
	}

	if err := h.cycleService.SoftDeleteCycle(c.Request.Context(), tenant, cycleID); err != nil {
		abortWithCycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
