package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-timetable-api/internal/models"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, skip, limit int) ([]models.ScheduleDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.ScheduleDetail, error)
	ListByRoom(ctx context.Context, roomID int64) ([]models.ScheduleDetail, error)
	SlotsByRoomAndDay(ctx context.Context, roomID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error)
	SlotsByTeacherAndDay(ctx context.Context, teacherID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	BulkUpdateRegular(ctx context.Context, filter models.ScheduleBulkFilter, update models.ScheduleBulkUpdate) (int64, error)
}

const weeklyCachePattern = "weekly:*"

// CreateScheduleRequest describes payload for creating a schedule entry.
type CreateScheduleRequest struct {
	TeacherID  int64               `json:"teacher_id" validate:"required"`
	RoomID     int64               `json:"room_id" validate:"required"`
	StudentID  *int64              `json:"student_id"`
	DayOfWeek  string              `json:"day_of_week" validate:"required"`
	StartTime  models.TimeOfDay    `json:"start_time"`
	EndTime    models.TimeOfDay    `json:"end_time"`
	Type       models.ScheduleType `json:"type" validate:"required"`
	IsRegular  *int                `json:"is_regular"`
	ChangeType *models.ChangeType  `json:"change_type"`
}

// OptionalID distinguishes an absent merge-patch field from an explicit null.
// `"student_id": null` clears the assignment; omitting the key keeps it.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON records that the field was present before decoding it.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// UpdateScheduleRequest merge-patches an existing schedule; absent fields
// keep their current values.
type UpdateScheduleRequest struct {
	TeacherID  *int64               `json:"teacher_id"`
	RoomID     *int64               `json:"room_id"`
	StudentID  OptionalID           `json:"student_id"`
	DayOfWeek  *string              `json:"day_of_week"`
	StartTime  *models.TimeOfDay    `json:"start_time"`
	EndTime    *models.TimeOfDay    `json:"end_time"`
	Type       *models.ScheduleType `json:"type"`
	IsRegular  *int                 `json:"is_regular"`
	ChangeType *models.ChangeType   `json:"change_type"`
}

// BulkUpdateRegularRequest carries the filter and update halves of the
// regular-timetable bulk move.
type BulkUpdateRegularRequest struct {
	Filter models.ScheduleBulkFilter `json:"filter" validate:"required"`
	Update models.ScheduleBulkUpdate `json:"update"`
}

// BulkUpdateRegularResult reports how many rows were touched.
type BulkUpdateRegularResult struct {
	Updated int64 `json:"updated"`
}

// ScheduleService coordinates schedule writes through the overlap validator.
type ScheduleService struct {
	repo      scheduleRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService. cache and metrics may be nil.
func NewScheduleService(repo scheduleRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns schedules with skip/limit pagination.
func (s *ScheduleService) List(ctx context.Context, skip, limit int) ([]models.ScheduleDetail, error) {
	schedules, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns a schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "일정을 찾을 수 없습니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// WeeklyByTeacher returns every schedule for a teacher.
func (s *ScheduleService) WeeklyByTeacher(ctx context.Context, teacherID int64) ([]models.ScheduleDetail, error) {
	key := fmt.Sprintf("weekly:teacher:%d", teacherID)
	var cached []models.ScheduleDetail
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	schedules, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher schedules")
	}
	s.cache.Set(ctx, key, schedules)
	return schedules, nil
}

// WeeklyByRoom returns every schedule for a room.
func (s *ScheduleService) WeeklyByRoom(ctx context.Context, roomID int64) ([]models.ScheduleDetail, error) {
	key := fmt.Sprintf("weekly:room:%d", roomID)
	var cached []models.ScheduleDetail
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	schedules, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list room schedules")
	}
	s.cache.Set(ctx, key, schedules)
	return schedules, nil
}

// Create inserts a new schedule after the overlap check.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	isRegular := 1
	if req.IsRegular != nil {
		isRegular = *req.IsRegular
	}
	schedule := models.Schedule{
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
		StudentID:  req.StudentID,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Type:       req.Type,
		IsRegular:  isRegular,
		ChangeType: req.ChangeType,
	}
	if err := s.validateCandidate(schedule); err != nil {
		return nil, err
	}

	if err := s.ensureNoConflict(ctx, schedule, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	s.cache.Invalidate(ctx, weeklyCachePattern)
	return &schedule, nil
}

// Update merge-patches an existing schedule and re-runs the overlap check
// with the row's own id excluded, so an unchanged slot never self-conflicts.
func (s *ScheduleService) Update(ctx context.Context, id int64, req UpdateScheduleRequest) (*models.Schedule, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "일정을 찾을 수 없습니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	merged := *existing
	if req.TeacherID != nil {
		merged.TeacherID = *req.TeacherID
	}
	if req.RoomID != nil {
		merged.RoomID = *req.RoomID
	}
	if req.StudentID.Set {
		merged.StudentID = req.StudentID.Value
	}
	if req.DayOfWeek != nil {
		merged.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		merged.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		merged.EndTime = *req.EndTime
	}
	if req.Type != nil {
		merged.Type = *req.Type
	}
	if req.IsRegular != nil {
		merged.IsRegular = *req.IsRegular
	}
	if req.ChangeType != nil {
		merged.ChangeType = req.ChangeType
	}

	if err := s.validateCandidate(merged); err != nil {
		return nil, err
	}

	if err := s.ensureNoConflict(ctx, merged, existing.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	s.cache.Invalidate(ctx, weeklyCachePattern)
	return &merged, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "일정을 찾을 수 없습니다.")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.cache.Invalidate(ctx, weeklyCachePattern)
	return nil
}

// DeleteAll wipes the schedule table, the admin reset.
func (s *ScheduleService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedules")
	}
	s.cache.Invalidate(ctx, weeklyCachePattern)
	return nil
}

// BulkUpdateRegular moves matching regular rows wholesale. The overlap
// validator is deliberately not re-run here: the endpoint exists to shift
// whole blocks of the standing timetable, and the legacy clients depend on
// the move never failing midway.
func (s *ScheduleService) BulkUpdateRegular(ctx context.Context, req BulkUpdateRegularRequest) (*BulkUpdateRegularResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk update payload")
	}
	if !models.IsWeekDay(req.Filter.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "요일이 올바르지 않습니다.")
	}
	if !req.Filter.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "일정 유형이 올바르지 않습니다.")
	}
	if req.Update.DayOfWeek != nil && !models.IsWeekDay(*req.Update.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "요일이 올바르지 않습니다.")
	}
	if req.Update.Type != nil && !req.Update.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "일정 유형이 올바르지 않습니다.")
	}
	if req.Update.ChangeType != nil && !req.Update.ChangeType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "변경 유형이 올바르지 않습니다.")
	}

	updated, err := s.repo.BulkUpdateRegular(ctx, req.Filter, req.Update)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk update schedules")
	}
	s.cache.Invalidate(ctx, weeklyCachePattern)
	return &BulkUpdateRegularResult{Updated: updated}, nil
}

func (s *ScheduleService) validateCandidate(schedule models.Schedule) error {
	if !models.IsWeekDay(schedule.DayOfWeek) {
		return appErrors.Clone(appErrors.ErrValidation, "요일이 올바르지 않습니다.")
	}
	if !schedule.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "일정 유형이 올바르지 않습니다.")
	}
	if schedule.ChangeType != nil && !schedule.ChangeType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "변경 유형이 올바르지 않습니다.")
	}
	if !schedule.StartTime.Before(schedule.EndTime) {
		return appErrors.Clone(appErrors.ErrValidation, "시작 시간은 종료 시간보다 빨라야 합니다.")
	}
	return nil
}

// ensureNoConflict runs the room pass then the teacher pass over persisted
// slots for the candidate's day. An overlapping slot is skipped only when it
// is a CLASS entry of a group-exempt teacher. The check and the following
// write are not one transaction; see DESIGN.md for the documented race.
func (s *ScheduleService) ensureNoConflict(ctx context.Context, candidate models.Schedule, excludeID int64) error {
	roomSlots, err := s.repo.SlotsByRoomAndDay(ctx, candidate.RoomID, candidate.DayOfWeek, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room conflicts")
	}
	if conflict := firstConflict(candidate, roomSlots, "ROOM"); conflict != nil {
		return s.wrapConflict(conflict)
	}

	teacherSlots, err := s.repo.SlotsByTeacherAndDay(ctx, candidate.TeacherID, candidate.DayOfWeek, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher conflicts")
	}
	if conflict := firstConflict(candidate, teacherSlots, "TEACHER"); conflict != nil {
		return s.wrapConflict(conflict)
	}
	return nil
}

func firstConflict(candidate models.Schedule, slots []models.ScheduleSlot, dimension string) *models.ScheduleConflictError {
	for _, slot := range slots {
		if !models.IntervalsOverlap(candidate.StartTime, candidate.EndTime, slot.StartTime, slot.EndTime) {
			continue
		}
		if slot.Exempt() {
			continue
		}
		return &models.ScheduleConflictError{
			Dimension: dimension,
			Message:   appErrors.ErrScheduleConflict.Message,
			Conflict: models.ScheduleConflict{
				ScheduleID: slot.ID,
				Dimension:  dimension,
				DayOfWeek:  candidate.DayOfWeek,
				StartTime:  slot.StartTime,
				EndTime:    slot.EndTime,
			},
		}
	}
	return nil
}

func (s *ScheduleService) wrapConflict(conflict *models.ScheduleConflictError) error {
	s.metrics.RecordConflict()
	s.logger.Info("schedule conflict",
		zap.String("dimension", conflict.Dimension),
		zap.Int64("existing_id", conflict.Conflict.ScheduleID),
	)
	return appErrors.Wrap(conflict, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, appErrors.ErrScheduleConflict.Message)
}
