package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-timetable-api/internal/service"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
	"github.com/noah-isme/academy-timetable-api/pkg/response"
)

// ScheduleHandler wires schedule services to HTTP routes.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs a new ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Register mounts schedule routes on the router. The bulk endpoint accepts
// both PUT and POST with identical behavior, matching the legacy API.
func (h *ScheduleHandler) Register(r gin.IRouter) {
	g := r.Group("/schedules")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PUT("/bulk_update_regular/", h.BulkUpdateRegular)
	g.POST("/bulk_update_regular/", h.BulkUpdateRegular)
}

// Create godoc
// @Summary Create schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 200 {object} models.Schedule
// @Failure 409 {object} response.ErrorEnvelope
// @Router /schedules/ [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// List godoc
// @Summary List schedules
// @Tags Schedules
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Max rows returned"
// @Success 200 {array} models.ScheduleDetail
// @Router /schedules/ [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	schedules, err := h.schedules.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// Update godoc
// @Summary Merge-patch a schedule entry
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param payload body service.UpdateScheduleRequest true "Fields to change"
// @Success 200 {object} models.Schedule
// @Failure 409 {object} response.ErrorEnvelope
// @Router /schedules/{id} [patch]
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	schedule, err := h.schedules.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Delete godoc
// @Summary Delete schedule entry
// @Tags Schedules
// @Param id path int true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.schedules.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkUpdateRegular godoc
// @Summary Bulk update matching regular schedule rows
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.BulkUpdateRegularRequest true "Filter and update"
// @Success 200 {object} service.BulkUpdateRegularResult
// @Router /schedules/bulk_update_regular/ [put]
func (h *ScheduleHandler) BulkUpdateRegular(c *gin.Context) {
	var req service.BulkUpdateRegularRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk update payload"))
		return
	}
	result, err := h.schedules.BulkUpdateRegular(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
