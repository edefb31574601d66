package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Table is a sheet of rows in column order.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]any
}

// Write renders t in the given format.
func Write(w io.Writer, format Format, t Table) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, t)
	case FormatPDF:
		return writePDF(w, t)
	case FormatCSV:
		return writeCSV(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		return val.StringFixed(2)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return formatValue(*val)
	case []string:
		return strings.Join(val, ";")
	default:
		return fmt.Sprint(val)
	}
}
