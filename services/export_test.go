package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"speshway-platform/internal/memstore"
	"speshway-platform/models"
)

func TestWriteSentencesXLSX(t *testing.T) {
	sentences := NewSentenceService(memstore.NewSentences())
	ctx := context.Background()
	for _, text := range []string{"First recorded sentence.", "Second recorded sentence."} {
		if _, err := sentences.Create(ctx, models.CreateSentenceRequest{Text: text, URL: "https://example.com"}, "test-agent"); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	n, err := NewExportService(sentences).WriteSentencesXLSX(ctx, &buf)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sentenceSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("sheet has %d rows, want 3", len(rows))
	}
	if rows[0][1] != "Text" || rows[1][4] != "test-agent" {
		t.Errorf("unexpected content: %v", rows)
	}
}
