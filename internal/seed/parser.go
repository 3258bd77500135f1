package seed

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/noah-isme/academy-timetable-api/internal/models"
)

// Entry is one parsed time slot, already fanned out to a single student.
type Entry struct {
	Teacher string
	Day     string
	Start   models.TimeOfDay
	End     models.TimeOfDay
	Type    models.ScheduleType
	Student string
	Room    string
}

// Result holds everything extracted from a timetable text block. Teachers,
// Rooms and Students preserve first-appearance order and are deduplicated.
type Result struct {
	Teachers []TeacherInfo
	Rooms    []string
	Students []string
	Entries  []Entry
}

// TeacherInfo pairs a teacher name with its subject label.
type TeacherInfo struct {
	Name    string
	Subject string
}

var (
	// Section headers look like "──── 김윤아 선생님 (국어)".
	teacherHeaderRe = regexp.MustCompile(`─+\s*(.+?) 선생님 \((.+)\)`)
	// Slot lines look like "• 13:00 – 15:00: 수업 – 이동현 (컨설팅룸1)"; the
	// student part may be a comma-separated list for group classes.
	slotRe = regexp.MustCompile(`^•?\s*(\d{1,2}:\d{2})\s*–\s*(\d{1,2}:\d{2}):\s*(수업|상담)\s*–\s*([^(]+)\(([^)]+)\)$`)
)

// Parse extracts teachers, rooms, students and schedule entries from the
// academy's fixed-format weekly timetable text.
func Parse(text string) Result {
	var result Result
	seenTeacher := map[string]bool{}
	seenRoom := map[string]bool{}
	seenStudent := map[string]bool{}

	var currentTeacher, currentDay string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := teacherHeaderRe.FindStringSubmatch(line); m != nil {
			currentTeacher = strings.TrimSpace(m[1])
			currentDay = ""
			if !seenTeacher[currentTeacher] {
				seenTeacher[currentTeacher] = true
				result.Teachers = append(result.Teachers, TeacherInfo{Name: currentTeacher, Subject: strings.TrimSpace(m[2])})
			}
			continue
		}

		if models.IsWeekDay(line) {
			currentDay = line
			continue
		}

		m := slotRe.FindStringSubmatch(line)
		if m == nil || currentTeacher == "" || currentDay == "" {
			continue
		}
		start, err := models.ParseTimeOfDay(m[1])
		if err != nil {
			continue
		}
		end, err := models.ParseTimeOfDay(m[2])
		if err != nil {
			continue
		}
		slotType := models.ScheduleType(m[3])
		room := strings.TrimSpace(m[5])
		if !seenRoom[room] {
			seenRoom[room] = true
			result.Rooms = append(result.Rooms, room)
		}

		for _, raw := range strings.Split(m[4], ",") {
			student := strings.TrimSpace(raw)
			if student == "" {
				continue
			}
			if !seenStudent[student] {
				seenStudent[student] = true
				result.Students = append(result.Students, student)
			}
			result.Entries = append(result.Entries, Entry{
				Teacher: currentTeacher,
				Day:     currentDay,
				Start:   start,
				End:     end,
				Type:    slotType,
				Student: student,
				Room:    room,
			})
		}
	}

	return result
}
