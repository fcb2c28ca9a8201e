package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
)

// fourRows has sites A and B with one failure and two successes at A.
func fourRows() *dataset.Dataset {
	return dataset.New([]model.Record{
		{LaunchSite: "A", PayloadMassKg: 100, Class: 1, BoosterVersionCategory: "FT", BoosterVersion: "F9 FT B1"},
		{LaunchSite: "A", PayloadMassKg: 500, Class: 0, BoosterVersionCategory: "v1.1", BoosterVersion: "F9 v1.1 B2"},
		{LaunchSite: "B", PayloadMassKg: 1000, Class: 1, BoosterVersionCategory: "FT", BoosterVersion: "F9 FT B3"},
		{LaunchSite: "B", PayloadMassKg: 5000, Class: 1, BoosterVersionCategory: "B4", BoosterVersion: "F9 B4 B4"},
	})
}

func TestPieAllSites(t *testing.T) {
	p := Pie(fourRows(), model.AllSites)
	assert.Equal(t, "Success Rate for all sites", p.Title)
	assert.Equal(t, []model.Slice{{Label: "A", Value: 1}, {Label: "B", Value: 2}}, p.Slices)
}

func TestPieAllSitesKeepsZeroSuccessSites(t *testing.T) {
	ds := dataset.New([]model.Record{
		{LaunchSite: "X", Class: 0},
		{LaunchSite: "Y", Class: 1},
	})
	p := Pie(ds, model.AllSites)
	assert.Equal(t, []model.Slice{{Label: "X", Value: 0}, {Label: "Y", Value: 1}}, p.Slices)
}

func TestPieSingleSite(t *testing.T) {
	p := Pie(fourRows(), "A")
	assert.Equal(t, "Success Rate for A", p.Title)
	assert.Equal(t, []model.Slice{{Label: "0", Value: 1}, {Label: "1", Value: 1}}, p.Slices)

	p = Pie(fourRows(), "B")
	assert.Equal(t, []model.Slice{{Label: "1", Value: 2}}, p.Slices)
}

func TestPieUnknownSiteIsEmpty(t *testing.T) {
	p := Pie(fourRows(), "Z")
	assert.Equal(t, "Success Rate for Z", p.Title)
	assert.Empty(t, p.Slices)
	assert.Equal(t, 0.0, p.Total())
}

func TestPieTotals(t *testing.T) {
	ds := fourRows()
	successes := 0
	ds.Each(func(r model.Record) {
		if r.Success() {
			successes++
		}
	})
	assert.Equal(t, float64(successes), Pie(ds, model.AllSites).Total())

	for _, site := range ds.Sites() {
		rows := 0
		ds.Each(func(r model.Record) {
			if r.LaunchSite == site {
				rows++
			}
		})
		assert.Equal(t, float64(rows), Pie(ds, site).Total(), site)
	}
}

func TestScatterAllSites(t *testing.T) {
	s := Scatter(fourRows(), model.AllSites, model.PayloadRange{Low: 0, High: 10000})
	assert.Equal(t, "Payload Vs Class For All Sites", s.Title)
	assert.Equal(t, dataset.PayloadColumn, s.XLabel)
	assert.Equal(t, dataset.ClassColumn, s.YLabel)
	require.Len(t, s.Series, 3)
	assert.Equal(t, "FT", s.Series[0].Category)
	assert.Equal(t, "v1.1", s.Series[1].Category)
	assert.Equal(t, "B4", s.Series[2].Category)
	assert.Equal(t, []model.ScatterPoint{
		{X: 100, Y: 1, Hover: "F9 FT B1"},
		{X: 1000, Y: 1, Hover: "F9 FT B3"},
	}, s.Series[0].Points)
	assert.Equal(t, 4, s.PointCount())
}

func TestScatterBoundsAreExclusive(t *testing.T) {
	s := Scatter(fourRows(), model.AllSites, model.PayloadRange{Low: 100, High: 5000})
	assert.Equal(t, 2, s.PointCount())
	for _, series := range s.Series {
		for _, p := range series.Points {
			assert.Greater(t, p.X, 100.0)
			assert.Less(t, p.X, 5000.0)
		}
	}
}

func TestScatterSingleSite(t *testing.T) {
	s := Scatter(fourRows(), "B", model.PayloadRange{Low: 0, High: 10000})
	assert.Equal(t, "Payload Vs Class For B", s.Title)
	assert.Equal(t, 2, s.PointCount())
	for _, series := range s.Series {
		for _, p := range series.Points {
			assert.Contains(t, []string{"F9 FT B3", "F9 B4 B4"}, p.Hover)
		}
	}
}

func TestScatterEmptyRange(t *testing.T) {
	s := Scatter(fourRows(), model.AllSites, model.PayloadRange{Low: 500, High: 500})
	assert.NotNil(t, s.Series)
	assert.Empty(t, s.Series)
	assert.Equal(t, "Payload Vs Class For All Sites", s.Title)
}

func TestHandlersAreIdempotent(t *testing.T) {
	ds := fourRows()
	r := model.PayloadRange{Low: 0, High: 6000}
	assert.Equal(t, Pie(ds, "A"), Pie(ds, "A"))
	assert.Equal(t, Scatter(ds, model.AllSites, r), Scatter(ds, model.AllSites, r))
	assert.Equal(t, 4, ds.Len())
}
