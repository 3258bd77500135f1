package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-timetable-api/internal/models"
	"github.com/noah-isme/academy-timetable-api/internal/service"
)

type stubScheduleRepo struct {
	items  map[int64]*models.Schedule
	nextID int64
}

func (m *stubScheduleRepo) List(ctx context.Context, skip, limit int) ([]models.ScheduleDetail, error) {
	out := []models.ScheduleDetail{}
	for _, s := range m.items {
		out = append(out, models.ScheduleDetail{Schedule: *s})
	}
	return out, nil
}

func (m *stubScheduleRepo) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *stubScheduleRepo) ListByTeacher(ctx context.Context, teacherID int64) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (m *stubScheduleRepo) ListByRoom(ctx context.Context, roomID int64) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (m *stubScheduleRepo) SlotsByRoomAndDay(ctx context.Context, roomID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, s := range m.items {
		if s.RoomID == roomID && s.DayOfWeek == dayOfWeek && s.ID != excludeID {
			out = append(out, models.ScheduleSlot{
				ID: s.ID, TeacherID: s.TeacherID, RoomID: s.RoomID,
				StartTime: s.StartTime, EndTime: s.EndTime, Type: s.Type,
			})
		}
	}
	return out, nil
}

func (m *stubScheduleRepo) SlotsByTeacherAndDay(ctx context.Context, teacherID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, s := range m.items {
		if s.TeacherID == teacherID && s.DayOfWeek == dayOfWeek && s.ID != excludeID {
			out = append(out, models.ScheduleSlot{
				ID: s.ID, TeacherID: s.TeacherID, RoomID: s.RoomID,
				StartTime: s.StartTime, EndTime: s.EndTime, Type: s.Type,
			})
		}
	}
	return out, nil
}

func (m *stubScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Schedule)
	}
	m.nextID++
	schedule.ID = m.nextID
	cp := *schedule
	m.items[schedule.ID] = &cp
	return nil
}

func (m *stubScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	cp := *schedule
	m.items[schedule.ID] = &cp
	return nil
}

func (m *stubScheduleRepo) Delete(ctx context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func (m *stubScheduleRepo) DeleteAll(ctx context.Context) error {
	m.items = map[int64]*models.Schedule{}
	return nil
}

func (m *stubScheduleRepo) BulkUpdateRegular(ctx context.Context, filter models.ScheduleBulkFilter, update models.ScheduleBulkUpdate) (int64, error) {
	return 2, nil
}

func newScheduleRouter(repo *stubScheduleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewScheduleService(repo, nil, nil, validator.New(), zap.NewNop())
	r := gin.New()
	NewScheduleHandler(svc).Register(r)
	NewAdminHandler(svc).Register(r)
	return r
}

func postJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScheduleHandlerCreate(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})

	w := postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1,
		"room_id":    2,
		"day_of_week": "월요일",
		"start_time": "13:00",
		"end_time":   "15:00",
		"type":       "수업",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created models.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "13:00", created.StartTime.String())
	assert.Equal(t, 1, created.IsRegular)
}

func TestScheduleHandlerCreateConflictReturns409(t *testing.T) {
	repo := &stubScheduleRepo{}
	r := newScheduleRouter(repo)

	first := postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 3, "room_id": 2, "day_of_week": "월요일",
		"start_time": "14:00", "end_time": "16:00", "type": "상담",
	})
	require.Equal(t, http.StatusConflict, second.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &envelope))
	assert.Equal(t, "SCHEDULE_CONFLICT", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Message, "이미 공간 또는 선생님이 배정")
	assert.Len(t, repo.items, 1)
}

func TestScheduleHandlerCreateRejectsBadTime(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})

	w := postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13시", "end_time": "15:00", "type": "수업",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerList(t *testing.T) {
	repo := &stubScheduleRepo{}
	r := newScheduleRouter(repo)
	postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})

	req := httptest.NewRequest(http.MethodGet, "/schedules/?skip=0&limit=50", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.ScheduleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestScheduleHandlerUpdateNotFound(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})

	w := postJSON(r, http.MethodPatch, "/schedules/99", gin.H{"start_time": "14:00"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerUpdateSelfNoConflict(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})
	postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})

	w := postJSON(r, http.MethodPatch, "/schedules/1", gin.H{"start_time": "13:30"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "13:30", updated.StartTime.String())
}

func TestScheduleHandlerUpdateClearsStudentOnNull(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})
	postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "student_id": 42, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})

	w := postJSON(r, http.MethodPatch, "/schedules/1", gin.H{"student_id": nil})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Nil(t, updated.StudentID)
}

func TestScheduleHandlerDelete(t *testing.T) {
	repo := &stubScheduleRepo{}
	r := newScheduleRouter(repo)
	postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})

	req := httptest.NewRequest(http.MethodDelete, "/schedules/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.items)
}

func TestScheduleHandlerBulkUpdateRegular(t *testing.T) {
	r := newScheduleRouter(&stubScheduleRepo{})

	payload := gin.H{
		"filter": gin.H{
			"teacher_id": 1, "student_id": 2, "room_id": 3,
			"day_of_week": "월요일", "start_time": "13:00", "end_time": "15:00",
			"type": "수업",
		},
		"update": gin.H{"day_of_week": "화요일"},
	}
	for _, method := range []string{http.MethodPut, http.MethodPost} {
		w := postJSON(r, method, "/schedules/bulk_update_regular/", payload)
		require.Equal(t, http.StatusOK, w.Code, method)

		var result service.BulkUpdateRegularResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, int64(2), result.Updated)
	}
}

func TestAdminHandlerDeleteAllSchedules(t *testing.T) {
	repo := &stubScheduleRepo{}
	r := newScheduleRouter(repo)
	postJSON(r, http.MethodPost, "/schedules/", gin.H{
		"teacher_id": 1, "room_id": 2, "day_of_week": "월요일",
		"start_time": "13:00", "end_time": "15:00", "type": "수업",
	})

	req := httptest.NewRequest(http.MethodDelete, "/admin/schedules/delete_all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.items)
}
