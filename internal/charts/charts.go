// Package charts turns the launch dataset and the current control values
// into declarative pie and scatter charts.
package charts

import (
	"strconv"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
)

const (
	pieTitleAll        = "Success Rate for all sites"
	pieTitleSitePrefix = "Success Rate for "
	scatterTitlePrefix = "Payload Vs Class For "
	scatterAllLabel    = "All Sites"
)

// Pie returns successes per site for model.AllSites, or the outcome split
// of a single site otherwise. Slices follow first-seen site order; outcome
// slices are ordered 0 then 1 and only present when the outcome occurs.
func Pie(ds *dataset.Dataset, site string) model.PieChart {
	if site == model.AllSites {
		return pieAllSites(ds)
	}
	return pieForSite(ds, site)
}

func pieAllSites(ds *dataset.Dataset) model.PieChart {
	sites := ds.Sites()
	successes := make(map[string]int, len(sites))
	ds.Each(func(r model.Record) {
		if r.Success() {
			successes[r.LaunchSite]++
		}
	})
	slices := make([]model.Slice, 0, len(sites))
	for _, s := range sites {
		slices = append(slices, model.Slice{Label: s, Value: float64(successes[s])})
	}
	return model.PieChart{Title: pieTitleAll, Slices: slices}
}

func pieForSite(ds *dataset.Dataset, site string) model.PieChart {
	var counts [2]int
	ds.Each(func(r model.Record) {
		if r.LaunchSite != site || r.Class < 0 || r.Class > 1 {
			return
		}
		counts[r.Class]++
	})
	slices := make([]model.Slice, 0, 2)
	for class, n := range counts {
		if n == 0 {
			continue
		}
		slices = append(slices, model.Slice{Label: strconv.Itoa(class), Value: float64(n)})
	}
	return model.PieChart{Title: pieTitleSitePrefix + site, Slices: slices}
}

// Scatter returns payload against outcome for records whose payload lies
// strictly inside r, restricted to site unless it is model.AllSites.
// Points are grouped by booster version category in first-seen order.
func Scatter(ds *dataset.Dataset, site string, r model.PayloadRange) model.ScatterChart {
	title := scatterTitlePrefix + scatterAllLabel
	if site != model.AllSites {
		title = scatterTitlePrefix + site
	}
	out := model.ScatterChart{
		Title:  title,
		XLabel: dataset.PayloadColumn,
		YLabel: dataset.ClassColumn,
	}

	index := map[string]int{}
	ds.Each(func(rec model.Record) {
		if !r.Contains(rec.PayloadMassKg) {
			return
		}
		if site != model.AllSites && rec.LaunchSite != site {
			return
		}
		i, ok := index[rec.BoosterVersionCategory]
		if !ok {
			i = len(out.Series)
			index[rec.BoosterVersionCategory] = i
			out.Series = append(out.Series, model.ScatterSeries{Category: rec.BoosterVersionCategory})
		}
		out.Series[i].Points = append(out.Series[i].Points, model.ScatterPoint{
			X:     rec.PayloadMassKg,
			Y:     float64(rec.Class),
			Hover: rec.BoosterVersion,
		})
	})
	if out.Series == nil {
		out.Series = []model.ScatterSeries{}
	}
	return out
}
