package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/export"
)

// ExportFormat enumerates supported timetable renderings.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat normalises a user supplied format name.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case ExportFormatJSON, ExportFormatCSV, ExportFormatPDF:
		return format, nil
	case "":
		return ExportFormatJSON, nil
	default:
		return "", appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported export format %q", raw))
	}
}

var sessionHeaders = []string{"Day", "Slot", "Subject", "Batch", "Room", "Faculty"}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableExportService renders candidates and optionally stores the rendered files.
type TimetableExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewTimetableExportService constructs a TimetableExportService. storage may be nil when only Render is used.
func NewTimetableExportService(storage fileStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *TimetableExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableExportService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		now:     time.Now,
	}
}

// Render produces the candidate in the requested format.
func (s *TimetableExportService) Render(candidate dto.TimetableCandidate, format ExportFormat) ([]byte, error) {
	if candidate.Timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable is required")
	}
	var (
		payload []byte
		err     error
	)
	switch format {
	case ExportFormatJSON:
		payload, err = json.MarshalIndent(dto.TimetableExport{
			Name:            candidate.Timetable.Name,
			Schedule:        candidate.Timetable.Schedule,
			Metrics:         candidate.Timetable.Metrics,
			Suggestions:     candidate.Suggestions,
			ExportTimestamp: s.now().UTC(),
		}, "", "  ")
	case ExportFormatCSV:
		payload, err = s.csv.Render(buildSessionDataset(candidate))
	case ExportFormatPDF:
		payload, err = s.pdf.Render(buildSessionDataset(candidate), candidate.Timetable.Name)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return payload, nil
}

// ExportRun renders every candidate of a run and stores them under <runID>/, returning the relative paths.
func (s *TimetableExportService) ExportRun(resp *dto.GenerateTimetablesResponse, format ExportFormat) ([]string, error) {
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage not configured")
	}
	paths := make([]string, 0, len(resp.Candidates))
	for _, candidate := range resp.Candidates {
		payload, err := s.Render(candidate, format)
		if err != nil {
			return nil, err
		}
		filename := fmt.Sprintf("%s/%s.%s", sanitizeFilename(resp.RunID), sanitizeFilename(strings.ToLower(candidate.Timetable.Name)), format)
		rel, err := s.storage.Save(filename, payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable export")
		}
		s.logger.Debug("timetable exported", zap.String("path", rel), zap.String("format", string(format)))
		paths = append(paths, rel)
	}
	return paths, nil
}

func buildSessionDataset(candidate dto.TimetableCandidate) export.Dataset {
	timetable := candidate.Timetable
	sessions := timetable.Sessions()
	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, sessionRow(session))
	}

	metrics := timetable.Metrics
	notes := []string{
		fmt.Sprintf("Classroom utilization: %.1f%%", metrics.ClassroomUtilization),
		fmt.Sprintf("Faculty load balance: %.1f%%", metrics.FacultyLoadBalance),
		fmt.Sprintf("Faculty utilization: %.1f sessions", metrics.FacultyUtilization),
		fmt.Sprintf("Sessions scheduled: %d, rejected attempts: %d", metrics.TotalClassesScheduled, metrics.ConflictCount),
		fmt.Sprintf("Optimization score: %.1f", metrics.OptimizationScore),
	}
	for _, suggestion := range candidate.Suggestions {
		notes = append(notes, "Suggestion: "+suggestion)
	}

	return export.Dataset{Headers: sessionHeaders, Rows: rows, Notes: notes}
}

func sessionRow(session models.ClassSession) map[string]string {
	return map[string]string{
		"Day":     session.Day,
		"Slot":    session.Slot,
		"Subject": session.Subject,
		"Batch":   session.Batch,
		"Room":    session.Room,
		"Faculty": session.Faculty,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
