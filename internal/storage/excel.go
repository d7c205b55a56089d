package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// SheetName is the worksheet holding the business rows.
const SheetName = "Businesses"

// headerRows is the number of header rows: English then Georgian.
const headerRows = 2

// ExcelSink keeps a spreadsheet on disk in step with the records appended
// so far. Every Append saves the workbook, so an interrupted crawl leaves a
// readable file behind.
type ExcelSink struct {
	path    string
	mu      sync.Mutex
	file    *excelize.File
	records []*types.Business
	columns []column
	header  int
	data    int
	logger  *slog.Logger
}

// NewExcelSink creates an uninitialized sink. Call Initialize before
// Append.
func NewExcelSink(logger *slog.Logger) *ExcelSink {
	return &ExcelSink{
		logger: logger.With("component", "excel_sink"),
	}
}

func (s *ExcelSink) Name() string { return "excel" }

// Initialize creates the output directory and writes a workbook holding
// only the header rows.
func (s *ExcelSink) Initialize(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	s.path = path
	s.records = nil
	if err := s.rebuild(activeColumns(nil)); err != nil {
		return err
	}
	s.logger.Info("spreadsheet initialized", "path", path)
	return s.save()
}

// Seed loads records into the workbook with a single save, as when a crawl
// resumes from a checkpoint or archived pages are reparsed.
func (s *ExcelSink) Seed(records []*types.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("excel sink not initialized")
	}
	s.records = append(s.records, records...)
	if err := s.rebuild(activeColumns(s.records)); err != nil {
		return err
	}
	return s.save()
}

// Append adds one record. When the record makes an optional service column
// meaningful for the first time the sheet is rebuilt with the new column
// set; otherwise a single row is written.
func (s *ExcelSink) Append(_ context.Context, rec *types.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("excel sink not initialized")
	}
	s.records = append(s.records, rec)

	cols := activeColumns(s.records)
	if !sameHeaders(cols, s.columns) {
		s.logger.Debug("column set changed, rebuilding sheet", "columns", len(cols))
		if err := s.rebuild(cols); err != nil {
			return err
		}
	} else if err := s.writeRow(len(s.records)-1+headerRows+1, rec); err != nil {
		return err
	}
	return s.save()
}

// Count returns the number of data rows.
func (s *ExcelSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *ExcelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("spreadsheet written", "path", s.path, "records", len(s.records))
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// rebuild replaces the workbook with one laid out for cols and writes every
// accumulated record.
func (s *ExcelSink) rebuild(cols []column) error {
	if s.file != nil {
		_ = s.file.Close()
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4F81BD"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	data, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("data style: %w", err)
	}

	s.file, s.columns, s.header, s.data = f, cols, header, data

	english := make([]any, len(cols))
	georgian := make([]any, len(cols))
	for i, c := range cols {
		english[i] = c.header
		georgian[i] = c.georgian
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &english); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A2", &georgian); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), headerRows)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, header); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRows,
		TopLeftCell: fmt.Sprintf("A%d", headerRows+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(SheetName, "A1:"+lastHeader, nil); err != nil {
		return fmt.Errorf("autofilter: %w", err)
	}

	for i, rec := range s.records {
		if err := s.writeRow(i+headerRows+1, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExcelSink) writeRow(row int, rec *types.Business) error {
	values := make([]any, len(s.columns))
	for i, c := range s.columns {
		values[i] = c.value(rec)
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(s.columns), row)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(SheetName, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return s.file.SetCellStyle(SheetName, start, end, s.data)
}

func (s *ExcelSink) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	return nil
}
