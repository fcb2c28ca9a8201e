package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/store"
)

const header = "Launch Site,Payload Mass (kg),class,Booster Version Category,Booster Version\n"

func TestLoadCSVFixture(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "launches.csv"))
	require.NoError(t, err)

	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, ds.Sites())

	first := ds.Records()[0]
	assert.Equal(t, model.Record{
		LaunchSite:             "CCAFS LC-40",
		PayloadMassKg:          0,
		Class:                  0,
		BoosterVersionCategory: "v1.0",
		BoosterVersion:         "F9 v1.0  B0003",
	}, first)

	lo, hi, err := ds.Bounds(PayloadColumn)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 9600.0, hi)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileAccess))
	assert.False(t, errors.Is(err, ErrSchema))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEmptyPathAndDirectory(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrFileAccess)

	_, err = Load(t.TempDir())
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Launch Site,class\nA,1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{PayloadColumn, BoosterCategoryColumn, BoosterVersionColumn}, se.Missing)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, RequiredColumns, se.Missing)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Sites())

	_, _, err = ds.Bounds(PayloadColumn)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, err = ds.PayloadBounds()
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestReadCSVToleratesBOMAndBlankRows(t *testing.T) {
	in := utf8BOM + header + "A,100,1,FT,B1\n\n , , , , \nB,200,0,v1.1,B2\n"
	ds, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestReadCSVAcceptsFloatClass(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(header + "A,100,1.0,FT,B1\nA,50,0.0,FT,B2\n"))
	require.NoError(t, err)
	recs := ds.Records()
	assert.Equal(t, 1, recs[0].Class)
	assert.Equal(t, 0, recs[1].Class)
}

func TestReadCSVRejectsBadCells(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{name: "payload not a number", row: "A,heavy,1,FT,B1", column: PayloadColumn},
		{name: "payload NaN", row: "A,NaN,1,FT,B1", column: PayloadColumn},
		{name: "payload negative", row: "A,-5,1,FT,B1", column: PayloadColumn},
		{name: "class out of range", row: "A,100,2,FT,B1", column: ClassColumn},
		{name: "class fractional", row: "A,100,0.5,FT,B1", column: ClassColumn},
		{name: "empty site", row: ",100,1,FT,B1", column: SiteColumn},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(header + tc.row + "\n"))
			var se *SchemaError
			require.True(t, errors.As(err, &se), "err = %v", err)
			assert.Equal(t, 1, se.Row)
			assert.Equal(t, tc.column, se.Column)
		})
	}
}

func TestBoundsUnknownColumn(t *testing.T) {
	ds := New([]model.Record{{LaunchSite: "A", PayloadMassKg: 1}})
	_, _, err := ds.Bounds(BoosterVersionColumn)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestBoundsClassColumn(t *testing.T) {
	ds := New([]model.Record{
		{LaunchSite: "A", Class: 1},
		{LaunchSite: "B", Class: 1},
	})
	lo, hi, err := ds.Bounds(ClassColumn)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestNewCopiesInput(t *testing.T) {
	in := []model.Record{{LaunchSite: "A", PayloadMassKg: 1}}
	ds := New(in)
	in[0].LaunchSite = "mutated"

	assert.Equal(t, "A", ds.Records()[0].LaunchSite)

	out := ds.Records()
	out[0].LaunchSite = "also mutated"
	assert.Equal(t, "A", ds.Records()[0].LaunchSite)

	sites := ds.Sites()
	sites[0] = "x"
	assert.Equal(t, []string{"A"}, ds.Sites())
}

func TestSiteStats(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "launches.csv"))
	require.NoError(t, err)
	assert.Equal(t, []SiteStat{
		{Site: "CCAFS LC-40", Launches: 2, Successes: 0},
		{Site: "VAFB SLC-4E", Launches: 2, Successes: 1},
		{Site: "KSC LC-39A", Launches: 2, Successes: 2},
		{Site: "CCAFS SLC-40", Launches: 1, Successes: 1},
	}, ds.SiteStats())

	assert.Empty(t, New(nil).SiteStats())
}

func TestLoadSQLiteRoundTrip(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "launches.csv"))
	require.NoError(t, err)

	dbPath := filepath.Join(t.TempDir(), "launches.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.ReplaceLaunches(context.Background(), src.Records()))
	require.NoError(t, st.Close())

	ds, err := Load(dbPath)
	require.NoError(t, err)
	assert.Equal(t, src.Records(), ds.Records())
	assert.Equal(t, src.Sites(), ds.Sites())
}

func TestLoadSQLiteRejectsInvalidRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bad.sqlite")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.ReplaceLaunches(context.Background(), []model.Record{
		{LaunchSite: "A", PayloadMassKg: 10, Class: 3, BoosterVersionCategory: "FT", BoosterVersion: "B1"},
	}))
	require.NoError(t, st.Close())

	_, err = Load(dbPath)
	assert.ErrorIs(t, err, ErrSchema)
}
