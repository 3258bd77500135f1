package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-timetable-api/internal/service"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
	"github.com/noah-isme/academy-timetable-api/pkg/response"
)

// TeacherHandler wires teacher services to HTTP routes.
type TeacherHandler struct {
	teachers  *service.TeacherService
	schedules *service.ScheduleService
	exports   *service.ExportService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers *service.TeacherService, schedules *service.ScheduleService, exports *service.ExportService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, schedules: schedules, exports: exports}
}

// Register mounts teacher routes on the router.
func (h *TeacherHandler) Register(r gin.IRouter) {
	g := r.Group("/teachers")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/schedules", h.WeeklySchedules)
	g.GET("/:id/schedules/export", h.ExportWeekly)
}

// Create godoc
// @Summary Register teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 200 {object} models.Teacher
// @Router /teachers/ [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Success 200 {array} models.Teacher
// @Router /teachers/ [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teachers)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} models.Teacher
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Teachers
// @Param id path int true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.teachers.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// WeeklySchedules godoc
// @Summary Weekly timetable for a teacher
// @Tags Teachers
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {array} models.ScheduleDetail
// @Router /teachers/{id}/schedules [get]
func (h *TeacherHandler) WeeklySchedules(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.teachers.Get(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.WeeklyByTeacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// ExportWeekly godoc
// @Summary Export a teacher's weekly timetable
// @Tags Teachers
// @Produce text/csv
// @Param id path int true "Teacher ID"
// @Param format query string false "csv or pdf"
// @Success 200
// @Router /teachers/{id}/schedules/export [get]
func (h *TeacherHandler) ExportWeekly(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.teachers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.WeeklyByTeacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, contentType, err := h.exports.RenderWeekly(teacher.Name, schedules, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=teacher-%d-schedule", id))
	c.Data(http.StatusOK, contentType, payload)
}
