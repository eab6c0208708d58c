package api

import (
	"errors"
	"net/http"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/scheduling"
	"fitbro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreateEntryRequest struct {
	CyclePlanID string  `json:"cycle_plan_id" binding:"required"`
	DayDate     string  `json:"day_date" binding:"required"`
	WorkoutID   string  `json:"workout_id" binding:"required"`
	ExerciseID  string  `json:"exercise_id" binding:"required"`
	Kind        string  `json:"kind" binding:"required,oneof=sets time"`
	Sets        int     `json:"planned_sets" binding:"omitempty,min=1"`
	Reps        int     `json:"planned_reps" binding:"omitempty,min=1"`
	Weight      float64 `json:"planned_weight" binding:"omitempty,min=0"`
	Minutes     int     `json:"planned_minutes" binding:"omitempty,min=1"`
	RPE         int     `json:"planned_rpe" binding:"omitempty,min=1,max=10"`
	Notes       string  `json:"planned_notes"`
}

// SwapWorkoutDayRequest exchanges the planned workload between two dates of
// one cycle.
type SwapWorkoutDayRequest struct {
	CyclePlanID string `json:"cycle_plan_id" binding:"required"`
	FromDate    string `json:"from_date" binding:"required"`
	ToDate      string `json:"to_date" binding:"required"`
}

type CreateLogRequest struct {
	WorkoutPlanEntryID string  `json:"workout_plan_entry_id" binding:"required"`
	Status             string  `json:"status" binding:"required,oneof=pending completed skipped terminated"`
	ActualSets         int     `json:"actual_sets" binding:"omitempty,min=0"`
	ActualReps         int     `json:"actual_reps" binding:"omitempty,min=0"`
	ActualWeight       float64 `json:"actual_weight" binding:"omitempty,min=0"`
	ActualMinutes      int     `json:"actual_minutes" binding:"omitempty,min=0"`
	ActualRPE          int     `json:"actual_rpe" binding:"omitempty,min=1,max=10"`
	Notes              string  `json:"actual_notes"`
}

type UpdateLogRequest struct {
	Status        string  `json:"status" binding:"required,oneof=pending completed skipped terminated"`
	ActualSets    int     `json:"actual_sets" binding:"omitempty,min=0"`
	ActualReps    int     `json:"actual_reps" binding:"omitempty,min=0"`
	ActualWeight  float64 `json:"actual_weight" binding:"omitempty,min=0"`
	ActualMinutes int     `json:"actual_minutes" binding:"omitempty,min=0"`
	ActualRPE     int     `json:"actual_rpe" binding:"omitempty,min=1,max=10"`
	Notes         string  `json:"actual_notes"`
}

type PlanEntryResponse struct {
	ID          string               `json:"id"`
	CyclePlanID string               `json:"cycle_plan_id"`
	DayDate     domain.Date          `json:"day_date"`
	WorkoutID   string               `json:"workout_id"`
	ExerciseID  string               `json:"exercise_id"`
	Target      domain.PlannedTarget `json:"target"`
	Notes       string               `json:"planned_notes,omitempty"`
}

type WorkoutLogResponse struct {
	ID                 string           `json:"id"`
	MemberID           string           `json:"member_id"`
	CyclePlanID        string           `json:"cycle_plan_id"`
	WorkoutPlanEntryID string           `json:"workout_plan_entry_id"`
	WorkoutDate        domain.Date      `json:"workout_date"`
	Status             domain.LogStatus `json:"status"`
	ActualSets         int              `json:"actual_sets,omitempty"`
	ActualReps         int              `json:"actual_reps,omitempty"`
	ActualWeight       float64          `json:"actual_weight,omitempty"`
	ActualMinutes      int              `json:"actual_minutes,omitempty"`
	ActualRPE          int              `json:"actual_rpe,omitempty"`
	Notes              string           `json:"actual_notes,omitempty"`
}

// SwapToTodayResponse returns the moved entry together with the cycle tail
// the move re-sequenced.
type SwapToTodayResponse struct {
	Entry  PlanEntryResponse `json:"entry"`
	Cycles []CycleResponse   `json:"cycles"`
}

// MapEntryToResponse converts a domain.WorkoutPlanEntry to its DTO.
func MapEntryToResponse(entry *domain.WorkoutPlanEntry) PlanEntryResponse {
	if entry == nil {
		return PlanEntryResponse{}
	}
	return PlanEntryResponse{
		ID:          entry.ID.Hex(),
		CyclePlanID: entry.CyclePlanID.Hex(),
		DayDate:     entry.DayDate,
		WorkoutID:   entry.WorkoutID.Hex(),
		ExerciseID:  entry.ExerciseID.Hex(),
		Target:      entry.Target,
		Notes:       entry.Notes,
	}
}

func MapEntriesToResponse(entries []domain.WorkoutPlanEntry) []PlanEntryResponse {
	responses := make([]PlanEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = MapEntryToResponse(&e)
	}
	return responses
}

// MapLogToResponse converts a domain.WorkoutLog to its DTO.
func MapLogToResponse(log *domain.WorkoutLog) WorkoutLogResponse {
	if log == nil {
		return WorkoutLogResponse{}
	}
	return WorkoutLogResponse{
		ID:                 log.ID.Hex(),
		MemberID:           log.MemberID.Hex(),
		CyclePlanID:        log.CyclePlanID.Hex(),
		WorkoutPlanEntryID: log.WorkoutPlanEntryID.Hex(),
		WorkoutDate:        log.WorkoutDate,
		Status:             log.Status,
		ActualSets:         log.ActualSets,
		ActualReps:         log.ActualReps,
		ActualWeight:       log.ActualWeight,
		ActualMinutes:      log.ActualMinutes,
		ActualRPE:          log.ActualRPE,
		Notes:              log.Notes,
	}
}

func abortWithPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrLogNotFound),
		errors.Is(err, service.ErrCycleNotFound),
		errors.Is(err, service.ErrMemberNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMemberNotInGym):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEntryDateOutOfCycle),
		errors.Is(err, scheduling.ErrInvalidSwapTarget),
		errors.Is(err, scheduling.ErrInvalidRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, scheduling.ErrAlreadyLogged),
		errors.Is(err, scheduling.ErrMembershipExhausted),
		errors.Is(err, service.ErrLogImmutable):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Handler Methods ---

// CreateEntry godoc
// @Summary Create a workout plan entry on a cycle date
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateEntryRequest true "Entry details"
// @Success 201 {object} PlanEntryResponse
// @Router /plan-entries [post]
func (h *PlanHandler) CreateEntry(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cyclePlanID, err := primitive.ObjectIDFromHex(req.CyclePlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cycle_plan_id format.")
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout_id format.")
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise_id format.")
		return
	}
	dayDate, err := domain.ParseDate(req.DayDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day_date, expected YYYY-MM-DD.")
		return
	}

	entry := &domain.WorkoutPlanEntry{
		CyclePlanID: cyclePlanID,
		DayDate:     dayDate,
		WorkoutID:   workoutID,
		ExerciseID:  exerciseID,
		Target: domain.PlannedTarget{
			Kind:    domain.TargetKind(req.Kind),
			Sets:    req.Sets,
			Reps:    req.Reps,
			Weight:  req.Weight,
			Minutes: req.Minutes,
			RPE:     req.RPE,
		},
		Notes: req.Notes,
	}

	created, err := h.planService.CreateEntry(c.Request.Context(), tenant, entry)
	if err != nil {
		abortWithPlanError(c, err, "Failed to create plan entry.")
		return
	}
	c.JSON(http.StatusCreated, MapEntryToResponse(created))
}

// ListEntries godoc
// @Summary List a cycle's workout plan entries
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param cycleId path string true "Cycle ID"
// @Success 200 {array} PlanEntryResponse
// @Router /cycles/{cycleId}/entries [get]
func (h *PlanHandler) ListEntries(c *gin.Context) {
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

	entries, err := h.planService.ListEntries(c.Request.Context(), tenant, cycleID)
	if err != nil {
		abortWithPlanError(c, err, "Failed to list plan entries.")
		return
	}
	c.JSON(http.StatusOK, MapEntriesToResponse(entries))
}

// SwapWorkoutDay godoc
// @Summary Swap the full planned workload between two dates of a cycle
// @Description Both dates must fall inside the cycle, neither may be the rest
// @Description day, and neither date may carry a completed workout log.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SwapWorkoutDayRequest true "Swap parameters"
// @Success 200 {array} PlanEntryResponse "Entries whose dates changed"
// @Failure 409 {object} gin.H "A date already carries a completed log"
// @Router /swap-workout-day [post]
func (h *PlanHandler) SwapWorkoutDay(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	var req SwapWorkoutDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	cyclePlanID, err := primitive.ObjectIDFromHex(req.CyclePlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid cycle_plan_id format.")
		return
	}
	fromDate, err := domain.ParseDate(req.FromDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid from_date, expected YYYY-MM-DD.")
		return
	}
	toDate, err := domain.ParseDate(req.ToDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid to_date, expected YYYY-MM-DD.")
		return
	}

	moved, err := h.planService.SwapWorkoutDay(c.Request.Context(), tenant, cyclePlanID, fromDate, toDate)
	if err != nil {
		abortWithPlanError(c, err, "Failed to swap workout day.")
		return
	}
	c.JSON(http.StatusOK, MapEntriesToResponse(moved))
}

// SwapEntryToToday godoc
// @Summary Move a plan entry to today, extending its cycle by one day
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan entry ID"
// @Success 200 {object} SwapToTodayResponse
// @Router /entries/{id}/swap-to-today [post]
func (h *PlanHandler) SwapEntryToToday(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID format.")
		return
	}

	result, err := h.planService.SwapEntryToToday(c.Request.Context(), tenant, entryID)
	if err != nil {
		abortWithPlanError(c, err, "Failed to swap entry to today.")
		return
	}
	c.JSON(http.StatusOK, SwapToTodayResponse{
		Entry:  MapEntryToResponse(&result.Entry),
		Cycles: MapCyclesToResponse(result.Cycles),
	})
}

// CreateLog godoc
// @Summary Record the outcome of a planned workout
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLogRequest true "Log details"
// @Success 201 {object} WorkoutLogResponse
// @Router /workout-logs [post]
func (h *PlanHandler) CreateLog(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	entryID, err := primitive.ObjectIDFromHex(req.WorkoutPlanEntryID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout_plan_entry_id format.")
		return
	}

	log := &domain.WorkoutLog{
		WorkoutPlanEntryID: entryID,
		Status:             domain.LogStatus(req.Status),
		ActualSets:         req.ActualSets,
		ActualReps:         req.ActualReps,
		ActualWeight:       req.ActualWeight,
		ActualMinutes:      req.ActualMinutes,
		ActualRPE:          req.ActualRPE,
		Notes:              req.Notes,
	}

	created, err := h.planService.CreateLog(c.Request.Context(), tenant, log)
	if err != nil {
		abortWithPlanError(c, err, "Failed to create workout log.")
		return
	}
	c.JSON(http.StatusCreated, MapLogToResponse(created))
}

// UpdateLog godoc
// @Summary Update a non-completed workout log
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout log ID"
// @Param request body UpdateLogRequest true "Log details"
// @Success 200 {object} WorkoutLogResponse
// @Failure 409 {object} gin.H "Completed logs are immutable"
// @Router /workout-logs/{id} [put]
func (h *PlanHandler) UpdateLog(c *gin.Context) {
	tenant, err := getTenantFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify tenant from token.")
		return
	}
	logID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format.")
		return
	}
	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	log := &domain.WorkoutLog{
		ID:            logID,
		Status:        domain.LogStatus(req.Status),
		ActualSets:    req.ActualSets,
		ActualReps:    req.ActualReps,
		ActualWeight:  req.ActualWeight,
		ActualMinutes: req.ActualMinutes,
		ActualRPE:     req.ActualRPE,
		Notes:         req.Notes,
	}

	updated, err := h.planService.UpdateLog(c.Request.Context(), tenant, log)
	if err != nil {
		abortWithPlanError(c, err, "Failed to update workout log.")
		return
	}
	c.JSON(http.StatusOK, MapLogToResponse(updated))
}
