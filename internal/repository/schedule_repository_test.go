package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-timetable-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleDetailRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "teacher_id", "room_id", "student_id", "day_of_week", "start_time", "end_time",
		"type", "is_regular", "change_type", "created_at", "updated_at",
		"teacher_name", "room_name", "student_name",
	}).AddRow(int64(1), int64(2), int64(3), int64(4), "월요일", "13:00", "15:00",
		"수업", 1, nil, now, now, "김윤아", "컨설팅룸1", "이동현")
}

func TestScheduleRepositoryList(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT s.id, .+ FROM schedules s").
		WithArgs(100, 0).
		WillReturnRows(scheduleDetailRow())

	schedules, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, "13:00", schedules[0].StartTime.String())
	assert.Equal(t, "김윤아", *schedules[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListClampsLimit(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT s.id, .+ FROM schedules s").
		WithArgs(100, 0).
		WillReturnRows(scheduleDetailRow())

	_, err := repo.List(context.Background(), -5, 5000)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.teacher_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(scheduleDetailRow())

	schedules, err := repo.ListByTeacher(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositorySlotsByRoomAndDay(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "room_id", "start_time", "end_time", "type", "teacher_exempt"}).
		AddRow(int64(1), int64(2), int64(3), "13:00", "15:00", "수업", true)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.room_id = $1 AND s.day_of_week = $2")).
		WithArgs(int64(3), "월요일").
		WillReturnRows(rows)

	slots, err := repo.SlotsByRoomAndDay(context.Background(), 3, "월요일", 0)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].TeacherExempt)
	assert.True(t, slots[0].Exempt())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositorySlotsByTeacherAndDayExcludesID(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "room_id", "start_time", "end_time", "type", "teacher_exempt"})
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.teacher_id = $1 AND s.day_of_week = $2 AND s.id <> $3")).
		WithArgs(int64(2), "월요일", int64(7)).
		WillReturnRows(rows)

	slots, err := repo.SlotsByTeacherAndDay(context.Background(), 2, "월요일", 7)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	start, _ := models.ParseTimeOfDay("13:00")
	end, _ := models.ParseTimeOfDay("15:00")
	sched := &models.Schedule{
		TeacherID: 1, RoomID: 2, DayOfWeek: "월요일",
		StartTime: start, EndTime: end, Type: models.ScheduleTypeClass, IsRegular: 1,
	}
	require.NoError(t, repo.Create(context.Background(), sched))
	assert.Equal(t, int64(9), sched.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkInsert(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	start, _ := models.ParseTimeOfDay("13:00")
	end, _ := models.ParseTimeOfDay("15:00")
	schedules := []models.Schedule{
		{TeacherID: 1, RoomID: 2, DayOfWeek: "월요일", StartTime: start, EndTime: end, Type: models.ScheduleTypeClass, IsRegular: 1},
		{TeacherID: 1, RoomID: 2, DayOfWeek: "화요일", StartTime: start, EndTime: end, Type: models.ScheduleTypeClass, IsRegular: 1},
	}
	require.NoError(t, repo.BulkInsert(context.Background(), schedules))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("DELETE FROM schedules").
		WillReturnResult(sqlmock.NewResult(0, 12))

	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkUpdateRegular(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedules SET day_of_week = $8, updated_at = $9 WHERE is_regular = 1")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), "화요일", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	day := "화요일"
	start, _ := models.ParseTimeOfDay("13:00")
	end, _ := models.ParseTimeOfDay("15:00")
	updated, err := repo.BulkUpdateRegular(context.Background(), models.ScheduleBulkFilter{
		TeacherID: 1, StudentID: 2, RoomID: 3, DayOfWeek: "월요일",
		StartTime: &start, EndTime: &end, Type: models.ScheduleTypeClass,
	}, models.ScheduleBulkUpdate{DayOfWeek: &day})
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkUpdateRegularEmptyUpdateCounts(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE is_regular = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	start, _ := models.ParseTimeOfDay("13:00")
	end, _ := models.ParseTimeOfDay("15:00")
	updated, err := repo.BulkUpdateRegular(context.Background(), models.ScheduleBulkFilter{
		TeacherID: 1, StudentID: 2, RoomID: 3, DayOfWeek: "월요일",
		StartTime: &start, EndTime: &end, Type: models.ScheduleTypeClass,
	}, models.ScheduleBulkUpdate{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkUpdateRegularRejectsMissingTimes(t *testing.T) {
	db, _, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	_, err := repo.BulkUpdateRegular(context.Background(), models.ScheduleBulkFilter{
		TeacherID: 1, StudentID: 2, RoomID: 3, DayOfWeek: "월요일",
		Type: models.ScheduleTypeClass,
	}, models.ScheduleBulkUpdate{})
	require.Error(t, err)
}
