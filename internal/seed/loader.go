package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-timetable-api/internal/models"
	"github.com/noah-isme/academy-timetable-api/internal/repository"
)

// Loader persists a parsed timetable, reusing entities that already exist.
type Loader struct {
	teachers  *repository.TeacherRepository
	rooms     *repository.RoomRepository
	students  *repository.StudentRepository
	schedules *repository.ScheduleRepository
	logger    *zap.Logger
}

// NewLoader constructs a Loader.
func NewLoader(
	teachers *repository.TeacherRepository,
	rooms *repository.RoomRepository,
	students *repository.StudentRepository,
	schedules *repository.ScheduleRepository,
	logger *zap.Logger,
) *Loader {
	return &Loader{
		teachers:  teachers,
		rooms:     rooms,
		students:  students,
		schedules: schedules,
		logger:    logger,
	}
}

// Load inserts all entities and schedules from a parse result. Teachers whose
// name appears in exemptNames are marked group-exempt so their class slots do
// not block other bookings. Returns the number of schedules inserted.
func (l *Loader) Load(ctx context.Context, result Result, exemptNames []string) (int, error) {
	exempt := map[string]bool{}
	for _, name := range exemptNames {
		exempt[name] = true
	}

	teacherIDs := map[string]int64{}
	for _, info := range result.Teachers {
		existing, err := l.teachers.FindByName(ctx, info.Name)
		switch {
		case err == nil:
			teacherIDs[info.Name] = existing.ID
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("find teacher %q: %w", info.Name, err)
		}
		subject := info.Subject
		teacher := models.Teacher{Name: info.Name, Subject: &subject, GroupExempt: exempt[info.Name]}
		if err := l.teachers.Create(ctx, &teacher); err != nil {
			return 0, fmt.Errorf("create teacher %q: %w", info.Name, err)
		}
		teacherIDs[info.Name] = teacher.ID
	}

	roomIDs := map[string]int64{}
	for _, name := range result.Rooms {
		existing, err := l.rooms.FindByName(ctx, name)
		switch {
		case err == nil:
			roomIDs[name] = existing.ID
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("find room %q: %w", name, err)
		}
		room := models.Room{Name: name}
		if err := l.rooms.Create(ctx, &room); err != nil {
			return 0, fmt.Errorf("create room %q: %w", name, err)
		}
		roomIDs[name] = room.ID
	}

	studentIDs := map[string]int64{}
	for _, name := range result.Students {
		existing, err := l.students.FindByName(ctx, name)
		switch {
		case err == nil:
			studentIDs[name] = existing.ID
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("find student %q: %w", name, err)
		}
		student := models.Student{Name: name}
		if err := l.students.Create(ctx, &student); err != nil {
			return 0, fmt.Errorf("create student %q: %w", name, err)
		}
		studentIDs[name] = student.ID
	}

	schedules := make([]models.Schedule, 0, len(result.Entries))
	for _, entry := range result.Entries {
		studentID := studentIDs[entry.Student]
		schedules = append(schedules, models.Schedule{
			TeacherID: teacherIDs[entry.Teacher],
			RoomID:    roomIDs[entry.Room],
			StudentID: &studentID,
			DayOfWeek: entry.Day,
			StartTime: entry.Start,
			EndTime:   entry.End,
			Type:      entry.Type,
			IsRegular: 1,
		})
	}
	if err := l.schedules.BulkInsert(ctx, schedules); err != nil {
		return 0, fmt.Errorf("insert schedules: %w", err)
	}

	l.logger.Info("timetable seeded",
		zap.Int("teachers", len(result.Teachers)),
		zap.Int("rooms", len(result.Rooms)),
		zap.Int("students", len(result.Students)),
		zap.Int("schedules", len(schedules)))
	return len(schedules), nil
}
