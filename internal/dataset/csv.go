package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/launchdash/internal/model"
)

const utf8BOM = "\ufeff"

func loadCSVFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	ds, err := ReadCSV(file)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return nil, err
		}
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return ds, nil
}

// ReadCSV parses a dataset from CSV with a header row.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
		}
		return nil, err
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	row := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if isBlankRow(fields) {
			continue
		}
		rec, err := parseRow(row, fields, index)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return New(records), nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

func isBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(row int, fields []string, index map[string]int) (model.Record, error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	payloadRaw := cell(PayloadColumn)
	payload, err := strconv.ParseFloat(payloadRaw, 64)
	if err != nil || math.IsNaN(payload) || math.IsInf(payload, 0) {
		return model.Record{}, &SchemaError{Row: row, Column: PayloadColumn, Value: payloadRaw, Reason: "not a number"}
	}

	classRaw := cell(ClassColumn)
	class, err := parseClass(classRaw)
	if err != nil {
		return model.Record{}, &SchemaError{Row: row, Column: ClassColumn, Value: classRaw, Reason: "class must be 0 or 1"}
	}

	rec := model.Record{
		LaunchSite:             cell(SiteColumn),
		PayloadMassKg:          payload,
		Class:                  class,
		BoosterVersionCategory: cell(BoosterCategoryColumn),
		BoosterVersion:         cell(BoosterVersionColumn),
	}
	if rec.LaunchSite == "" {
		return model.Record{}, &SchemaError{Row: row, Column: SiteColumn, Value: "", Reason: "launch site is empty"}
	}
	if err := validateRecord(row, rec); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// parseClass accepts 0/1 written as integers or floats ("1.0").
func parseClass(raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, checkClass(v)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New("not integral")
	}
	v := int(f)
	return v, checkClass(v)
}

func checkClass(v int) error {
	if v != 0 && v != 1 {
		return errors.New("out of range")
	}
	return nil
}
