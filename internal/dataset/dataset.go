// Package dataset loads the launch records table and exposes read-only access to it.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/store"
)

// Column names of the input file.
const (
	SiteColumn            = "Launch Site"
	PayloadColumn         = "Payload Mass (kg)"
	ClassColumn           = "class"
	BoosterCategoryColumn = "Booster Version Category"
	BoosterVersionColumn  = "Booster Version"
)

// RequiredColumns lists the columns every input must carry.
var RequiredColumns = []string{
	SiteColumn,
	PayloadColumn,
	ClassColumn,
	BoosterCategoryColumn,
	BoosterVersionColumn,
}

// Dataset is an immutable, ordered sequence of records.
type Dataset struct {
	records []model.Record
	sites   []string
}

// New builds a dataset from records. The slice is copied.
func New(records []model.Record) *Dataset {
	ds := &Dataset{records: append([]model.Record(nil), records...)}
	seen := make(map[string]struct{}, 8)
	for _, r := range ds.records {
		if _, ok := seen[r.LaunchSite]; ok {
			continue
		}
		seen[r.LaunchSite] = struct{}{}
		ds.sites = append(ds.sites, r.LaunchSite)
	}
	return ds
}

// Load reads a dataset from a CSV file, or from a SQLite database when the
// path has a .db/.sqlite/.sqlite3 extension.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return nil, &FileAccessError{Path: path, Err: errors.New("no dataset path given")}
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileAccessError{Path: path, Err: errors.New("is a directory")}
	}
	if isSQLitePath(path) {
		return loadSQLite(path)
	}
	return loadCSVFile(path)
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

func loadSQLite(path string) (*Dataset, error) {
	st, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			// Best-effort close for read-only access.
			_ = cerr
		}
	}()
	records, err := st.ListLaunches(context.Background())
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("read launches table: %v", err)}
	}
	for i, r := range records {
		if err := validateRecord(i+1, r); err != nil {
			return nil, err
		}
	}
	return New(records), nil
}

func validateRecord(row int, r model.Record) error {
	if r.PayloadMassKg < 0 {
		return &SchemaError{Row: row, Column: PayloadColumn, Value: fmt.Sprint(r.PayloadMassKg), Reason: "payload mass must be >= 0"}
	}
	if r.Class != 0 && r.Class != 1 {
		return &SchemaError{Row: row, Column: ClassColumn, Value: fmt.Sprint(r.Class), Reason: "class must be 0 or 1"}
	}
	return nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the records in load order.
func (d *Dataset) Records() []model.Record {
	return append([]model.Record(nil), d.records...)
}

// Each calls fn for every record in load order without copying.
func (d *Dataset) Each(fn func(model.Record)) {
	for _, r := range d.records {
		fn(r)
	}
}

// Sites returns distinct launch sites in first-seen order.
func (d *Dataset) Sites() []string {
	return append([]string(nil), d.sites...)
}

// SiteStat counts launches and successes at one site.
type SiteStat struct {
	Site      string
	Launches  int
	Successes int
}

// SiteStats returns per-site counts in first-seen site order.
func (d *Dataset) SiteStats() []SiteStat {
	index := make(map[string]int, len(d.sites))
	out := make([]SiteStat, len(d.sites))
	for i, s := range d.sites {
		index[s] = i
		out[i].Site = s
	}
	for _, r := range d.records {
		st := &out[index[r.LaunchSite]]
		st.Launches++
		if r.Success() {
			st.Successes++
		}
	}
	return out
}

// Bounds returns the minimum and maximum of a numeric column.
func (d *Dataset) Bounds(column string) (float64, float64, error) {
	var get func(model.Record) float64
	switch column {
	case PayloadColumn:
		get = func(r model.Record) float64 { return r.PayloadMassKg }
	case ClassColumn:
		get = func(r model.Record) float64 { return float64(r.Class) }
	default:
		return 0, 0, &SchemaError{Column: column, Reason: "not a numeric column"}
	}
	if len(d.records) == 0 {
		return 0, 0, ErrEmptyDataset
	}
	minVal := get(d.records[0])
	maxVal := minVal
	for _, r := range d.records[1:] {
		v := get(r)
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal, nil
}

// PayloadBounds is Bounds over the payload column as a range.
func (d *Dataset) PayloadBounds() (model.PayloadRange, error) {
	lo, hi, err := d.Bounds(PayloadColumn)
	if err != nil {
		return model.PayloadRange{}, err
	}
	return model.PayloadRange{Low: lo, High: hi}, nil
}
