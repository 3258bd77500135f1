package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-timetable-api/internal/models"
)

const scheduleDetailColumns = `s.id, s.teacher_id, s.room_id, s.student_id, s.day_of_week, s.start_time, s.end_time, s.type, s.is_regular, s.change_type, s.created_at, s.updated_at, t.name AS teacher_name, r.name AS room_name, st.name AS student_name`

const scheduleDetailJoins = `FROM schedules s
	LEFT JOIN teachers t ON t.id = s.teacher_id
	LEFT JOIN rooms r ON r.id = s.room_id
	LEFT JOIN students st ON st.id = s.student_id`

// ScheduleRepository provides persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with skip/limit pagination in storage order.
func (r *ScheduleRepository) List(ctx context.Context, skip, limit int) ([]models.ScheduleDetail, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY s.id LIMIT $1 OFFSET $2", scheduleDetailColumns, scheduleDetailJoins)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, limit, skip); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	const query = `SELECT id, teacher_id, room_id, student_id, day_of_week, start_time, end_time, type, is_regular, change_type, created_at, updated_at FROM schedules WHERE id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ListByTeacher returns every schedule for a teacher, the weekly view.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.ScheduleDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.teacher_id = $1 ORDER BY s.id", scheduleDetailColumns, scheduleDetailJoins)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher schedules: %w", err)
	}
	return schedules, nil
}

// ListByRoom returns every schedule for a room, the weekly view.
func (r *ScheduleRepository) ListByRoom(ctx context.Context, roomID int64) ([]models.ScheduleDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.room_id = $1 ORDER BY s.id", scheduleDetailColumns, scheduleDetailJoins)
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, roomID); err != nil {
		return nil, fmt.Errorf("list room schedules: %w", err)
	}
	return schedules, nil
}

// SlotsByRoomAndDay returns the slots the overlap validator scans for a room,
// excluding excludeID when it is non-zero.
func (r *ScheduleRepository) SlotsByRoomAndDay(ctx context.Context, roomID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error) {
	query := `SELECT s.id, s.teacher_id, s.room_id, s.start_time, s.end_time, s.type, COALESCE(t.group_exempt, FALSE) AS teacher_exempt
		FROM schedules s LEFT JOIN teachers t ON t.id = s.teacher_id
		WHERE s.room_id = $1 AND s.day_of_week = $2`
	args := []interface{}{roomID, dayOfWeek}
	if excludeID > 0 {
		query += " AND s.id <> $3"
		args = append(args, excludeID)
	}
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("select room slots: %w", err)
	}
	return slots, nil
}

// SlotsByTeacherAndDay returns the slots the overlap validator scans for a
// teacher, excluding excludeID when it is non-zero.
func (r *ScheduleRepository) SlotsByTeacherAndDay(ctx context.Context, teacherID int64, dayOfWeek string, excludeID int64) ([]models.ScheduleSlot, error) {
	query := `SELECT s.id, s.teacher_id, s.room_id, s.start_time, s.end_time, s.type, COALESCE(t.group_exempt, FALSE) AS teacher_exempt
		FROM schedules s LEFT JOIN teachers t ON t.id = s.teacher_id
		WHERE s.teacher_id = $1 AND s.day_of_week = $2`
	args := []interface{}{teacherID, dayOfWeek}
	if excludeID > 0 {
		query += " AND s.id <> $3"
		args = append(args, excludeID)
	}
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("select teacher slots: %w", err)
	}
	return slots, nil
}

// Create inserts a schedule row and fills in the generated id.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	const query = `INSERT INTO schedules (teacher_id, room_id, student_id, day_of_week, start_time, end_time, type, is_regular, change_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.GetContext(ctx, &schedule.ID, query,
		schedule.TeacherID, schedule.RoomID, schedule.StudentID, schedule.DayOfWeek,
		schedule.StartTime, schedule.EndTime, schedule.Type, schedule.IsRegular,
		schedule.ChangeType, schedule.CreatedAt, schedule.UpdatedAt); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// BulkInsert persists the given schedules in one round trip per row inside a
// transaction; used by the seeding importer.
func (r *ScheduleRepository) BulkInsert(ctx context.Context, schedules []models.Schedule) error {
	if len(schedules) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	const query = `INSERT INTO schedules (teacher_id, room_id, student_id, day_of_week, start_time, end_time, type, is_regular, change_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	now := time.Now().UTC()
	for _, s := range schedules {
		if _, err := tx.ExecContext(ctx, query,
			s.TeacherID, s.RoomID, s.StudentID, s.DayOfWeek,
			s.StartTime, s.EndTime, s.Type, s.IsRegular,
			s.ChangeType, now, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk insert schedule: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// Update rewrites an existing schedule row.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET teacher_id = :teacher_id, room_id = :room_id, student_id = :student_id, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, type = :type, is_regular = :is_regular, change_type = :change_type, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM schedules WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// DeleteAll wipes every schedule row, the admin reset.
func (r *ScheduleRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules`); err != nil {
		return fmt.Errorf("delete all schedules: %w", err)
	}
	return nil
}

// BulkUpdateRegular applies the partial update to every regular row matching
// the exact-equality filter and returns the number of rows updated. An empty
// update still reports how many rows the filter matches, mirroring the
// legacy endpoint.
func (r *ScheduleRepository) BulkUpdateRegular(ctx context.Context, filter models.ScheduleBulkFilter, update models.ScheduleBulkUpdate) (int64, error) {
	if filter.StartTime == nil || filter.EndTime == nil {
		return 0, fmt.Errorf("bulk filter requires start and end times")
	}
	where := "is_regular = 1 AND teacher_id = $1 AND student_id = $2 AND room_id = $3 AND day_of_week = $4 AND start_time = $5 AND end_time = $6 AND type = $7"
	args := []interface{}{filter.TeacherID, filter.StudentID, filter.RoomID, filter.DayOfWeek, *filter.StartTime, *filter.EndTime, filter.Type}

	var sets []string
	addSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.DayOfWeek != nil {
		addSet("day_of_week", *update.DayOfWeek)
	}
	if update.StartTime != nil {
		addSet("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		addSet("end_time", *update.EndTime)
	}
	if update.RoomID != nil {
		addSet("room_id", *update.RoomID)
	}
	if update.TeacherID != nil {
		addSet("teacher_id", *update.TeacherID)
	}
	if update.StudentID != nil {
		addSet("student_id", *update.StudentID)
	}
	if update.Type != nil {
		addSet("type", *update.Type)
	}
	if update.IsRegular != nil {
		addSet("is_regular", *update.IsRegular)
	}
	if update.ChangeType != nil {
		addSet("change_type", *update.ChangeType)
	}

	if len(sets) == 0 {
		countQuery := "SELECT COUNT(*) FROM schedules WHERE " + where
		var count int64
		if err := r.db.GetContext(ctx, &count, countQuery, args...); err != nil {
			return 0, fmt.Errorf("count bulk matches: %w", err)
		}
		return count, nil
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf("UPDATE schedules SET %s WHERE %s", strings.Join(sets, ", "), where)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update schedules: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update rows affected: %w", err)
	}
	return updated, nil
}
