// Package export сохраняет отзывы в таблицу Excel.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"reviewAnalyzer/internal/models"
)

const SheetName = "Sheet1"

var Header = []string{"Rating", "Title", "Review", "Cleaned Review"}

// Excel пишет отчет в файл по фиксированному пути, перезаписывая предыдущий.
type Excel struct {
	path string
}

func NewExcel(path string) *Excel {
	return &Excel{path: path}
}

func (e *Excel) Path() string {
	return e.path
}

// Export сохраняет записи и возвращает путь к файлу.
func (e *Excel) Export(records []models.ReviewRecord) (string, error) {
	if err := ensureDir(e.path); err != nil {
		return "", err
	}

	f, err := build(records)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(e.path); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	return e.path, nil
}

// WriteTo пишет ту же таблицу в w, не трогая файловую систему.
func WriteTo(w io.Writer, records []models.ReviewRecord) error {
	f, err := build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func build(records []models.ReviewRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{r.Rating, r.Title, r.Review, r.CleanedReview}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	return f, nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
