// Package export renders back-office reports.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/textilua/promoshop/internal/domain"
)

// OrdersXLSX renders constructor orders as a spreadsheet for the operator.
func OrdersXLSX(orders []domain.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Created", "Status", "Product", "Color", "Qty", "Method", "Placement", "Size", "Unit price", "Total", "Notified"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, o := range orders {
		values := []interface{}{
			o.ID.String(),
			o.CreatedAt.Format("2006-01-02 15:04"),
			string(o.Status),
			o.ProductTitle,
			o.Color,
			o.Qty,
			o.Method,
			o.Placement,
			o.PrintSize,
			o.UnitPrice,
			o.Total,
			o.Notified,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
