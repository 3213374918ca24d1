package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/attendly/attendly-api/internal/repository"
)

// ExportService renders a session's attendance sheet as an Excel workbook for
// teachers to download.
type ExportService interface {
	SessionSheet(ctx context.Context, teacherID uint, sessionCode string) ([]byte, string, error)
}

type exportService struct {
	sessions repository.SessionRepository
	records  repository.AttendanceRepository
	logger   zerolog.Logger
}

// NewExportService constructs the export service.
func NewExportService(sessions repository.SessionRepository, records repository.AttendanceRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		sessions: sessions,
		records:  records,
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

// SessionSheet returns the workbook bytes and a suggested file name.
func (s *exportService) SessionSheet(ctx context.Context, teacherID uint, sessionCode string) ([]byte, string, error) {
	session, err := s.sessions.GetByCodeForTeacher(ctx, teacherID, sessionCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSessionNotFound
		}
		return nil, "", fmt.Errorf("failed to look up session: %w", err)
	}

	records, err := s.records.ListBySession(ctx, sessionCode)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list attendance: %w", err)
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	const sheet = "Attendance"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug().Err(err).Msg("default sheet removal failed")
	}

	headers := []string{"#", "Name", "Roll", "Marked At", "Latitude", "Longitude"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, record := range records {
		values := []interface{}{
			row + 1,
			record.StudentName,
			record.StudentRoll,
			record.MarkedAt.UTC().Format(time.RFC3339),
			record.Latitude,
			record.Longitude,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	name := fmt.Sprintf("attendance-%s-%s.xlsx", session.Code, session.StartTime.UTC().Format("2006-01-02"))
	return buf.Bytes(), name, nil
}
