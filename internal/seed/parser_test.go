package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-timetable-api/internal/models"
)

const sampleTimetable = `
──────────── 김윤아 선생님 (국어)
월요일
• 13:00 – 15:00: 수업 – 이동현 (컨설팅룸1)
• 15:00 – 16:00: 상담 – 박서준 (상담실)
화요일
• 10:00 – 12:00: 수업 – 최지우, 한소희 (소강의실)

──────────── 김현철 선생님 (수학)
월요일
• 13:00 – 15:00: 수업 – 이동현 (대강의실)
`

func TestParseTimetable(t *testing.T) {
	result := Parse(sampleTimetable)

	require.Len(t, result.Teachers, 2)
	assert.Equal(t, TeacherInfo{Name: "김윤아", Subject: "국어"}, result.Teachers[0])
	assert.Equal(t, TeacherInfo{Name: "김현철", Subject: "수학"}, result.Teachers[1])

	assert.Equal(t, []string{"컨설팅룸1", "상담실", "소강의실", "대강의실"}, result.Rooms)
	assert.Equal(t, []string{"이동현", "박서준", "최지우", "한소희"}, result.Students)

	// The comma-separated class line fans out to one entry per student.
	require.Len(t, result.Entries, 5)

	first := result.Entries[0]
	assert.Equal(t, "김윤아", first.Teacher)
	assert.Equal(t, "월요일", first.Day)
	assert.Equal(t, "13:00", first.Start.String())
	assert.Equal(t, "15:00", first.End.String())
	assert.Equal(t, models.ScheduleTypeClass, first.Type)
	assert.Equal(t, "이동현", first.Student)
	assert.Equal(t, "컨설팅룸1", first.Room)

	consulting := result.Entries[1]
	assert.Equal(t, models.ScheduleTypeCounsel, consulting.Type)
	assert.Equal(t, "박서준", consulting.Student)

	group := result.Entries[2:4]
	assert.Equal(t, "최지우", group[0].Student)
	assert.Equal(t, "한소희", group[1].Student)
	for _, entry := range group {
		assert.Equal(t, "화요일", entry.Day)
		assert.Equal(t, "소강의실", entry.Room)
	}

	assert.Equal(t, "김현철", result.Entries[4].Teacher)
}

func TestParseDeduplicatesSharedNames(t *testing.T) {
	result := Parse(sampleTimetable)

	seen := map[string]int{}
	for _, name := range result.Students {
		seen[name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, name)
	}
}

func TestParseIgnoresMalformedLines(t *testing.T) {
	result := Parse(`
──────────── 김윤아 선생님 (국어)
월요일
이 줄은 형식이 아님
• 25:00 – 26:00: 수업 – 누군가 (방)
• 13:00 – 14:00: 수업 – 이동현 (컨설팅룸1)
`)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "이동현", result.Entries[0].Student)
}

func TestParseSkipsSlotsWithoutContext(t *testing.T) {
	// Slot lines before any teacher header or weekday are dropped.
	result := Parse(`• 13:00 – 14:00: 수업 – 이동현 (컨설팅룸1)`)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Teachers)
}
