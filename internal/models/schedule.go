package models

import "time"

// ScheduleType distinguishes classes from consulting slots. The Korean values
// are the legacy wire format and are stored verbatim.
type ScheduleType string

const (
	ScheduleTypeClass   ScheduleType = "수업"
	ScheduleTypeCounsel ScheduleType = "상담"
)

// Valid reports whether the type is one of the known values.
func (t ScheduleType) Valid() bool {
	return t == ScheduleTypeClass || t == ScheduleTypeCounsel
}

// ChangeType annotates how a one-off entry relates to the regular timetable.
type ChangeType string

const (
	ChangeTypeNormal     ChangeType = "일반"
	ChangeTypeChanged    ChangeType = "변경"
	ChangeTypeSupplement ChangeType = "보강"
)

// Valid reports whether the change type is one of the known values.
func (t ChangeType) Valid() bool {
	return t == ChangeTypeNormal || t == ChangeTypeChanged || t == ChangeTypeSupplement
}

// WeekDays lists the seven day-of-week labels in timetable order.
var WeekDays = []string{"월요일", "화요일", "수요일", "목요일", "금요일", "토요일", "일요일"}

// IsWeekDay reports whether the label is one of the seven day strings.
func IsWeekDay(day string) bool {
	return WeekDayIndex(day) >= 0
}

// WeekDayIndex returns the position of the day within the week, -1 if unknown.
func WeekDayIndex(day string) int {
	for i, d := range WeekDays {
		if d == day {
			return i
		}
	}
	return -1
}

// Schedule represents one time-slot assignment. Group classes are stored as
// duplicate rows with the same teacher/room/day/time, one per student.
type Schedule struct {
	ID         int64        `db:"id" json:"id"`
	TeacherID  int64        `db:"teacher_id" json:"teacher_id"`
	RoomID     int64        `db:"room_id" json:"room_id"`
	StudentID  *int64       `db:"student_id" json:"student_id,omitempty"`
	DayOfWeek  string       `db:"day_of_week" json:"day_of_week"`
	StartTime  TimeOfDay    `db:"start_time" json:"start_time"`
	EndTime    TimeOfDay    `db:"end_time" json:"end_time"`
	Type       ScheduleType `db:"type" json:"type"`
	IsRegular  int          `db:"is_regular" json:"is_regular"`
	ChangeType *ChangeType  `db:"change_type" json:"change_type,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail adds the joined entity names for weekly views and exports.
// The name columns are nullable because entity deletion does not cascade.
type ScheduleDetail struct {
	Schedule
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
	RoomName    *string `db:"room_name" json:"room_name,omitempty"`
	StudentName *string `db:"student_name" json:"student_name,omitempty"`
}

// ScheduleSlot is the subset of a persisted schedule the overlap validator
// scans, joined with the owning teacher's exemption flag.
type ScheduleSlot struct {
	ID            int64        `db:"id"`
	TeacherID     int64        `db:"teacher_id"`
	RoomID        int64        `db:"room_id"`
	StartTime     TimeOfDay    `db:"start_time"`
	EndTime       TimeOfDay    `db:"end_time"`
	Type          ScheduleType `db:"type"`
	TeacherExempt bool         `db:"teacher_exempt"`
}

// Exempt reports whether the slot is a group-exempt CLASS entry, which other
// bookings may legitimately overlap.
func (s ScheduleSlot) Exempt() bool {
	return s.Type == ScheduleTypeClass && s.TeacherExempt
}

// ScheduleBulkFilter matches regular rows by exact slot equality. The times
// are pointers so an omitted field fails validation instead of silently
// matching midnight.
type ScheduleBulkFilter struct {
	TeacherID int64        `json:"teacher_id" validate:"required"`
	StudentID int64        `json:"student_id" validate:"required"`
	RoomID    int64        `json:"room_id" validate:"required"`
	DayOfWeek string       `json:"day_of_week" validate:"required"`
	StartTime *TimeOfDay   `json:"start_time" validate:"required"`
	EndTime   *TimeOfDay   `json:"end_time" validate:"required"`
	Type      ScheduleType `json:"type" validate:"required"`
}

// ScheduleBulkUpdate carries the optional fields applied to every match.
type ScheduleBulkUpdate struct {
	DayOfWeek  *string       `json:"day_of_week,omitempty"`
	StartTime  *TimeOfDay    `json:"start_time,omitempty"`
	EndTime    *TimeOfDay    `json:"end_time,omitempty"`
	RoomID     *int64        `json:"room_id,omitempty"`
	TeacherID  *int64        `json:"teacher_id,omitempty"`
	StudentID  *int64        `json:"student_id,omitempty"`
	Type       *ScheduleType `json:"type,omitempty"`
	IsRegular  *int          `json:"is_regular,omitempty"`
	ChangeType *ChangeType   `json:"change_type,omitempty"`
}

// ScheduleConflict describes the existing entry that blocks a candidate.
type ScheduleConflict struct {
	ScheduleID int64     `json:"schedule_id"`
	Dimension  string    `json:"dimension"`
	DayOfWeek  string    `json:"day_of_week"`
	StartTime  TimeOfDay `json:"start_time"`
	EndTime    TimeOfDay `json:"end_time"`
}

// ScheduleConflictError is returned when a candidate collides with an
// existing unexempted entry.
type ScheduleConflictError struct {
	Dimension string           `json:"dimension"`
	Message   string           `json:"message"`
	Conflict  ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
