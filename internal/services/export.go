package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// ExportService renders metric history in downloadable formats. All three
// renderers share the same row layout so the exports stay comparable.
type ExportService struct {
	metrics *store.MetricStore
	logger  *logrus.Logger
}

func NewExportService(metrics *store.MetricStore, logger *logrus.Logger) *ExportService {
	return &ExportService{metrics: metrics, logger: logger}
}

var exportHeader = []string{"timestamp", "active_users", "course_count", "avg_completion", "progress_events", "api_calls_today"}

func exportRow(s models.MetricSample) []string {
	return []string{
		s.Timestamp.Format(time.RFC3339),
		strconv.Itoa(s.ActiveUsers),
		strconv.Itoa(s.CourseCount),
		strconv.FormatFloat(s.AvgCompletion, 'f', 2, 64),
		strconv.FormatInt(s.ProgressEvents, 10),
		strconv.FormatInt(s.APICallsToday, 10),
	}
}

// History returns raw metric samples for the JSON history endpoint; the
// renderers below reuse it.
func (s *ExportService) History(ctx context.Context, from, to time.Time, limit int) ([]models.MetricSample, error) {
	samples, err := s.metrics.History(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric history: %w", err)
	}
	return samples, nil
}

// CSV writes metric history as RFC 4180 CSV.
func (s *ExportService) CSV(ctx context.Context, from, to time.Time, limit int) ([]byte, error) {
	samples, err := s.History(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, sample := range samples {
		if err := w.Write(exportRow(sample)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	s.logger.WithField("rows", len(samples)).Info("Exported metric history as CSV")
	return buf.Bytes(), nil
}

// Excel writes metric history as an xlsx workbook with a single
// "Learning Metrics" sheet.
func (s *ExportService) Excel(ctx context.Context, from, to time.Time, limit int) ([]byte, error) {
	samples, err := s.History(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}

	const sheet = "Learning Metrics"
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for row, sample := range samples {
		for col, value := range exportRow(sample) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.WithField("rows", len(samples)).Info("Exported metric history as Excel")
	return buf.Bytes(), nil
}

// PDF writes metric history as a landscape table, one sample per row.
func (s *ExportService) PDF(ctx context.Context, from, to time.Time, limit int) ([]byte, error) {
	samples, err := s.History(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Learning Platform Metrics")
	pdf.Ln(12)

	colWidths := []float64{55, 35, 35, 40, 45, 45}

	pdf.SetFont("Helvetica", "B", 10)
	for i, name := range exportHeader {
		pdf.CellFormat(colWidths[i], 8, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, sample := range samples {
		for i, value := range exportRow(sample) {
			pdf.CellFormat(colWidths[i], 7, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	s.logger.WithField("rows", len(samples)).Info("Exported metric history as PDF")
	return buf.Bytes(), nil
}
