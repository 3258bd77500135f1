package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-timetable-api/internal/service"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
	"github.com/noah-isme/academy-timetable-api/pkg/response"
)

// RoomHandler wires room services to HTTP routes.
type RoomHandler struct {
	rooms     *service.RoomService
	schedules *service.ScheduleService
	exports   *service.ExportService
}

// NewRoomHandler constructs a new RoomHandler.
func NewRoomHandler(rooms *service.RoomService, schedules *service.ScheduleService, exports *service.ExportService) *RoomHandler {
	return &RoomHandler{rooms: rooms, schedules: schedules, exports: exports}
}

// Register mounts room routes on the router. The by_name lookup predates the
// id routes in the legacy API and stays for compatibility.
func (h *RoomHandler) Register(r gin.IRouter) {
	g := r.Group("/rooms")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/schedules", h.WeeklySchedules)
	g.GET("/:id/schedules/export", h.ExportWeekly)
	g.GET("/by_name/:name/schedules", h.WeeklySchedulesByName)
}

// Create godoc
// @Summary Register room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body service.CreateRoomRequest true "Room payload"
// @Success 200 {object} models.Room
// @Router /rooms/ [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req service.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, room)
}

// List godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Success 200 {array} models.Room
// @Router /rooms/ [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rooms)
}

// Get godoc
// @Summary Get room detail
// @Tags Rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} models.Room
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, room)
}

// Delete godoc
// @Summary Delete room
// @Tags Rooms
// @Param id path int true "Room ID"
// @Success 204
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.rooms.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// WeeklySchedules godoc
// @Summary Weekly timetable for a room
// @Tags Rooms
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {array} models.ScheduleDetail
// @Router /rooms/{id}/schedules [get]
func (h *RoomHandler) WeeklySchedules(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.rooms.Get(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.WeeklyByRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// WeeklySchedulesByName godoc
// @Summary Weekly timetable for a room looked up by name
// @Tags Rooms
// @Produce json
// @Param name path string true "Room name"
// @Success 200 {array} models.ScheduleDetail
// @Router /rooms/by_name/{name}/schedules [get]
func (h *RoomHandler) WeeklySchedulesByName(c *gin.Context) {
	room, err := h.rooms.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.WeeklyByRoom(c.Request.Context(), room.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedules)
}

// ExportWeekly godoc
// @Summary Export a room's weekly timetable
// @Tags Rooms
// @Produce text/csv
// @Param id path int true "Room ID"
// @Param format query string false "csv or pdf"
// @Success 200
// @Router /rooms/{id}/schedules/export [get]
func (h *RoomHandler) ExportWeekly(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedules, err := h.schedules.WeeklyByRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, contentType, err := h.exports.RenderWeekly(room.Name, schedules, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=room-%d-schedule", id))
	c.Data(http.StatusOK, contentType, payload)
}
