package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sentenceSheet = "Sentences"

// ExportService renders collections as spreadsheets for the admin UI.
type ExportService struct {
	sentences *SentenceService
}

func NewExportService(sentences *SentenceService) *ExportService {
	return &ExportService{sentences: sentences}
}

// WriteSentencesXLSX writes every sentence, newest first, as an XLSX workbook.
// It returns the number of rows written.
func (es *ExportService) WriteSentencesXLSX(ctx context.Context, w io.Writer) (int, error) {
	sentences, err := es.sentences.List(ctx)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sentenceSheet)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"ID", "Text", "URL", "Timestamp", "User Agent", "Recorded At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sentenceSheet, cell, header)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(sentenceSheet, "A1", "F1", style)
	}

	for i, s := range sentences {
		row := i + 2
		f.SetCellValue(sentenceSheet, fmt.Sprintf("A%d", row), s.ID.Hex())
		f.SetCellValue(sentenceSheet, fmt.Sprintf("B%d", row), s.Text)
		f.SetCellValue(sentenceSheet, fmt.Sprintf("C%d", row), s.URL)
		f.SetCellValue(sentenceSheet, fmt.Sprintf("D%d", row), s.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sentenceSheet, fmt.Sprintf("E%d", row), s.UserAgent)
		f.SetCellValue(sentenceSheet, fmt.Sprintf("F%d", row), s.RecordedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sentenceSheet, "A", "A", 26)
	f.SetColWidth(sentenceSheet, "B", "B", 80)
	f.SetColWidth(sentenceSheet, "C", "C", 50)
	f.SetColWidth(sentenceSheet, "D", "F", 22)

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return len(sentences), nil
}
