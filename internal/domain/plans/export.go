package plans

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Palette — цвета прайса, зависят от темы пользователя.
type Palette struct {
	HeaderFill string
	HeaderFont string
	RowFill    string
	RowFont    string
}

var (
	PaletteLight = Palette{HeaderFill: "#E5E7EB", HeaderFont: "#111827", RowFill: "#FFFFFF", RowFont: "#111827"}
	PaletteDark  = Palette{HeaderFill: "#1F2937", HeaderFont: "#F9FAFB", RowFill: "#111827", RowFont: "#E5E7EB"}
)

const SheetName = "Тарифы"

var exportHeader = []interface{}{
	"plan_id",
	"Тариф",
	"Описание",
	"Цена за сотрудника / мес",
	"Цена за сотрудника / год",
	"Экономия при оплате за год, %",
	"Возможности",
}

// ExportXLSX формирует прайс-лист в Excel.
func ExportXLSX(list []Plan, pal Palette) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: pal.HeaderFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{pal.HeaderFill}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: pal.RowFont},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{pal.RowFill}},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("row style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	row := 2
	for _, p := range Sort(list) {
		features := make([]string, 0, len(p.Features))
		for _, k := range p.FeatureKeys() {
			features = append(features, fmt.Sprintf("%s: %s", k, p.FeatureValue(k)))
		}
		excelRow := []interface{}{
			p.ID,
			p.Name,
			p.Description,
			p.PricePerUserMonthly,
			p.PricePerUserAnnual,
			p.AnnualSavingsPercent(),
			strings.Join(features, "\n"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := f.SetCellStyle(SheetName, cell, fmt.Sprintf("%s%d", lastCol, row), rowStyle); err != nil {
			return nil, fmt.Errorf("row style %d: %w", row, err)
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "B", "B", 20)
	_ = f.SetColWidth(SheetName, "C", "C", 40)
	_ = f.SetColWidth(SheetName, "D", "F", 18)
	_ = f.SetColWidth(SheetName, "G", "G", 36)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
