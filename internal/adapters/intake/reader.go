// Package intake reads change files (CSV or XLSX) into staging inputs.
package intake

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/example/wds/internal/ports/primary"
)

// Column names recognised in the header row.
const (
	ColPersonID   = "person_id"
	ColActionType = "action_type"
	ColSpecialty  = "specialty_name"
	ColRegion     = "region_name"
	ColWorkplace  = "workplace_name"
	ColSourceNote = "source_note"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{ColActionType, ColSpecialty, ColRegion, ColWorkplace}

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format (expected .csv or .xlsx)")

// ReadFile reads a change file, choosing the parser by extension. XLSX files
// are read from their first sheet.
func ReadFile(path string) ([]primary.ChangeInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open file")
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ReadCSV parses CSV content. A leading byte order mark is ignored.
func ReadCSV(r io.Reader) ([]primary.ChangeInput, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse csv")
	}
	return fromRows(records)
}

func readXLSX(path string) ([]primary.ChangeInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}
	return fromRows(rows)
}

// fromRows maps a header row plus data rows onto change inputs. Blank rows
// are skipped; Line is the 1-based row number in the file.
func fromRows(rows [][]string) ([]primary.ChangeInput, error) {
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var inputs []primary.ChangeInput
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		inputs = append(inputs, primary.ChangeInput{
			PersonID:      cell(row, ColPersonID),
			ActionType:    cell(row, ColActionType),
			SpecialtyName: cell(row, ColSpecialty),
			RegionName:    cell(row, ColRegion),
			WorkplaceName: cell(row, ColWorkplace),
			SourceNote:    cell(row, ColSourceNote),
			Line:          n + 2,
		})
	}
	return inputs, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
