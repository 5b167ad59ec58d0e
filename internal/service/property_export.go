package service

import (
	"bytes"
	"fmt"
	"strings"

	"realtor-site/internal/domain"

	"github.com/xuri/excelize/v2"
)

const propertySheet = "Properties"

type exportColumn struct {
	header string
	width  float64
	value  func(p *domain.Property) any
}

var propertyExportColumns = []exportColumn{
	{"ID", 38, func(p *domain.Property) any { return p.ID }},
	{"Status", 14, func(p *domain.Property) any { return string(p.Status) }},
	{"Address", 32, func(p *domain.Property) any { return p.Address }},
	{"City", 16, func(p *domain.Property) any { return p.City }},
	{"Province", 10, func(p *domain.Property) any { return p.Province }},
	{"Postal Code", 12, func(p *domain.Property) any { return p.PostalCode }},
	{"Type", 12, func(p *domain.Property) any { return string(p.PropertyType) }},
	{"Price", 14, func(p *domain.Property) any { return p.Price }},
	{"Bedrooms", 10, func(p *domain.Property) any { return p.Bedrooms }},
	{"Bathrooms", 10, func(p *domain.Property) any { return intOrNil(p.Bathrooms) }},
	{"Square Feet", 12, func(p *domain.Property) any { return intOrNil(p.SquareFeet) }},
	{"Year Built", 10, func(p *domain.Property) any { return intOrNil(p.YearBuilt) }},
	{"Features", 40, func(p *domain.Property) any { return strings.Join(p.Features, "; ") }},
	{"Photos", 8, func(p *domain.Property) any { return len(p.Media) }},
	{"Listing Date", 20, func(p *domain.Property) any {
		if p.ListingDate == nil {
			return nil
		}
		return p.ListingDate.Format("2006-01-02")
	}},
	{"Updated", 20, func(p *domain.Property) any { return p.UpdatedAt.Format("2006-01-02 15:04") }},
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// GeneratePropertyExport one header row plus one row per property.
func GeneratePropertyExport(props []*domain.Property) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(propertySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1C1C1C"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("failed to create price style: %w", err)
	}

	for i, col := range propertyExportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(propertySheet, cell, col.header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(propertySheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(propertySheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetPanes(propertySheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	for r, p := range props {
		row := r + 2
		for c, col := range propertyExportColumns {
			v := col.value(p)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(propertySheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if col.header == "Price" {
				if err := f.SetCellStyle(propertySheet, cell, cell, priceStyle); err != nil {
					return nil, fmt.Errorf("failed to set price style: %w", err)
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
