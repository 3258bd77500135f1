package service

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/noah-isme/academy-timetable-api/internal/models"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
	"github.com/noah-isme/academy-timetable-api/pkg/export"
)

// ExportService renders weekly views into downloadable documents.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs an ExportService.
func NewExportService() *ExportService {
	return &ExportService{csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

var weeklyHeaders = []string{"day_of_week", "start_time", "end_time", "type", "teacher", "student", "room", "is_regular"}

// RenderWeekly produces the weekly timetable in the requested format and
// returns the document bytes with their content type. Format defaults to csv.
func (s *ExportService) RenderWeekly(title string, schedules []models.ScheduleDetail, format string) ([]byte, string, error) {
	data := export.Dataset{Title: title, Headers: weeklyHeaders, Rows: weeklyRows(schedules)}

	switch format {
	case "", "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// weeklyRows orders entries by weekday then start time, the reading order of
// a printed timetable.
func weeklyRows(schedules []models.ScheduleDetail) [][]string {
	sorted := make([]models.ScheduleDetail, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := models.WeekDayIndex(sorted[i].DayOfWeek), models.WeekDayIndex(sorted[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	rows := make([][]string, 0, len(sorted))
	for _, item := range sorted {
		rows = append(rows, []string{
			item.DayOfWeek,
			item.StartTime.String(),
			item.EndTime.String(),
			string(item.Type),
			stringOr(item.TeacherName),
			stringOr(item.StudentName),
			stringOr(item.RoomName),
			strconv.Itoa(item.IsRegular),
		})
	}
	return rows
}

func stringOr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
