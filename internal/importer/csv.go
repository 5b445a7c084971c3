package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"go-pos-register/internal/model"
	"go-pos-register/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Row is one product line of a bulk import file.
type Row struct {
	Line     int
	Category string
	Name     string
	Price    decimal.Decimal
	SKU      *string
	Stock    int
}

var requiredColumns = []string{"category", "name", "price"}

// ParseCSV reads a header row followed by product rows. Columns are matched
// by header name; sku and stock are optional, stock defaults to 0.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperror.InvalidInput("import file is empty")
	}
	if err != nil {
		return nil, apperror.InvalidInput("read import header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, apperror.InvalidInput("import file is missing column %q", c)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.InvalidInput("line %d: %v", line, err)
		}

		row := Row{
			Line:     line,
			Category: field(record, "category"),
			Name:     field(record, "name"),
		}
		if row.Category == "" || row.Name == "" {
			return nil, apperror.InvalidInput("line %d: category and name are required", line)
		}
		if row.Category == model.HomeCategory {
			return nil, apperror.InvalidInput("line %d: %q is reserved", line, model.HomeCategory)
		}

		row.Price, err = decimal.NewFromString(field(record, "price"))
		if err != nil || row.Price.IsNegative() {
			return nil, apperror.InvalidInput("line %d: invalid price %q", line, field(record, "price"))
		}

		if sku := field(record, "sku"); sku != "" {
			row.SKU = &sku
		}

		if stock := field(record, "stock"); stock != "" {
			row.Stock, err = strconv.Atoi(stock)
			if err != nil || row.Stock < 0 {
				return nil, apperror.InvalidInput("line %d: invalid stock %q", line, stock)
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}
