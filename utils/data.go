package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/xuri/excelize/v2"
)

// Record is one training example.
type Record struct {
	Features grade.Features
	Grade    grade.Grade
}

var (
	ErrNoRecords = errors.New("dataset has no records")
	ErrNotFinite = errors.New("value is not a finite number")
)

// DataLoadError reports a dataset that could not be turned into records.
// Line is 1-based and zero when the failure is not tied to a row.
type DataLoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load dataset %s", e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// LoadDataset reads a .csv or .xlsx file of student records. Any bad row
// fails the whole load.
func LoadDataset(filename string) ([]Record, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readSheet(filename)
	default:
		rows, err = readCSV(filename)
	}
	if err != nil {
		return nil, &DataLoadError{Path: filename, Err: err}
	}
	return parseRows(filename, rows)
}

func readCSV(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// readSheet returns the rows of the first worksheet.
func readSheet(filename string) ([][]string, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseRows(filename string, rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, &DataLoadError{Path: filename, Err: errors.New("missing header row")}
	}
	featureCols, gradeCol, err := locateColumns(rows[0])
	if err != nil {
		return nil, &DataLoadError{Path: filename, Line: 1, Err: err}
	}

	var records []Record
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		var rec Record
		for j, col := range featureCols {
			name := grade.FeatureNames[j]
			v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, col)), 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				err = ErrNotFinite
			}
			if err != nil {
				return nil, &DataLoadError{Path: filename, Line: line, Column: name, Err: err}
			}
			rec.Features[j] = v
		}
		g, err := grade.Parse(cell(row, gradeCol))
		if err != nil {
			return nil, &DataLoadError{Path: filename, Line: line, Column: grade.GradeColumn, Err: err}
		}
		rec.Grade = g
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, &DataLoadError{Path: filename, Err: ErrNoRecords}
	}
	return records, nil
}

func locateColumns(header []string) (features [grade.NumFeatures]int, gradeCol int, err error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			// spreadsheet exports often start with a UTF-8 byte order mark
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}
	for j, name := range grade.FeatureNames {
		if features[j], err = lookup(name); err != nil {
			return
		}
	}
	gradeCol, err = lookup(grade.GradeColumn)
	return
}

// cell tolerates short rows; excelize drops trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
