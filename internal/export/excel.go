// Package export renders claim and allowance listings as .xlsx reports.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
)

// amountColumn is the 1-based column holding the monetary amount in both
// report layouts. The totals row writes its sum there.
const amountColumn = 4

var (
	claimHeader     = []string{"Number", "Type", "Description", "Amount", "Currency", "Status", "Submitted", "Employee"}
	allowanceHeader = []string{"Number", "Type", "Period", "Amount", "Currency", "Status", "Submitted", "Employee"}
)

// ExcelExporter writes expense reports to Excel workbooks.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// WriteClaims writes one row per claim plus a totals row to path.
func (e *ExcelExporter) WriteClaims(path string, claims []domain.Claim) error {
	rows := make([][]any, 0, len(claims))
	total := 0.0
	for _, c := range claims {
		rows = append(rows, []any{
			c.Number,
			string(c.Type),
			c.Description,
			c.Amount,
			c.Currency,
			string(c.Status),
			c.SubmittedAt.Format("2006-01-02"),
			c.EmployeeName,
		})
		total += c.Amount
	}
	return e.write(path, "Claims", claimHeader, rows, total)
}

// WriteAllowances writes one row per allowance plus a totals row to path.
func (e *ExcelExporter) WriteAllowances(path string, allowances []domain.Allowance) error {
	rows := make([][]any, 0, len(allowances))
	total := 0.0
	for _, a := range allowances {
		rows = append(rows, []any{
			a.Number,
			string(a.Type),
			a.Period,
			a.Amount,
			a.Currency,
			string(a.Status),
			a.SubmittedAt.Format("2006-01-02"),
			a.EmployeeName,
		})
		total += a.Amount
	}
	return e.write(path, "Allowances", allowanceHeader, rows, total)
}

func (e *ExcelExporter) write(path, sheet string, header []string, rows [][]any, total float64) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetList()[0], sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	e.setRow(f, sheet, 1, headerCells)

	for i, row := range rows {
		e.setRow(f, sheet, i+2, row)
	}

	lastDataRow := len(rows) + 1
	filterEnd, err := excelize.CoordinatesToCellName(len(header), lastDataRow)
	if err != nil {
		return fmt.Errorf("failed to compute filter range: %w", err)
	}
	if err := f.AutoFilter(sheet, "A1:"+filterEnd, nil); err != nil {
		return fmt.Errorf("failed to set auto-filter: %w", err)
	}

	totalsRow := lastDataRow + 1
	e.setCell(f, sheet, fmt.Sprintf("A%d", totalsRow), "Total")
	totalRef, err := excelize.CoordinatesToCellName(amountColumn, totalsRow)
	if err != nil {
		return fmt.Errorf("failed to compute totals cell: %w", err)
	}
	e.setCell(f, sheet, totalRef, fmt.Sprintf("%.2f", total))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Report written",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)))
	return nil
}

// setRow fills one worksheet row left to right starting at column A.
func (e *ExcelExporter) setRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		ref, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			e.logger.Warn("Bad cell coordinate",
				zap.Int("row", row),
				zap.Int("col", i+1),
				zap.Error(err))
			continue
		}
		e.setCell(f, sheet, ref, v)
	}
}

// setCell sets a cell value in the workbook.
func (e *ExcelExporter) setCell(f *excelize.File, sheet, cell string, value any) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
