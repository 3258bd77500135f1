package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-timetable-api/internal/service"
	"github.com/noah-isme/academy-timetable-api/pkg/response"
)

// AdminHandler exposes destructive maintenance endpoints.
type AdminHandler struct {
	schedules *service.ScheduleService
}

// NewAdminHandler constructs a new AdminHandler.
func NewAdminHandler(schedules *service.ScheduleService) *AdminHandler {
	return &AdminHandler{schedules: schedules}
}

// Register mounts admin routes on the router.
func (h *AdminHandler) Register(r gin.IRouter) {
	g := r.Group("/admin")
	g.DELETE("/schedules/delete_all", h.DeleteAllSchedules)
}

// DeleteAllSchedules godoc
// @Summary Delete every schedule row
// @Tags Admin
// @Success 204
// @Router /admin/schedules/delete_all [delete]
func (h *AdminHandler) DeleteAllSchedules(c *gin.Context) {
	if err := h.schedules.DeleteAll(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
