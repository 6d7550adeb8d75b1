// Package derive turns the launch table plus the current control values into
// chart figures. Every function here is pure: same inputs, same output, no
// state kept between calls.
package derive

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/okian/launchdash/internal/domain/dataset"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
)

// Labels and titles shown on the dashboard.
const (
	AllSitesLabel    = "All Sites"
	PayloadAxisTitle = "Payload Mass (kg)"
	ClassAxisTitle   = "class"

	// DefaultMarkStep spaces slider marks every 1000 kg.
	DefaultMarkStep = 1000
)

// SiteOptions lists the selectable sites: the "All Sites" sentinel followed by
// each distinct site in first-seen order.
func SiteOptions(ds *dataset.Dataset) []types.SiteOption {
	sites := ds.Sites()
	opts := make([]types.SiteOption, 0, len(sites)+1)
	opts = append(opts, types.SiteOption{Label: AllSitesLabel, Value: model.AllSites})
	for _, s := range sites {
		opts = append(opts, types.SiteOption{Label: s, Value: s})
	}
	return opts
}

// PayloadSlider describes the payload range control: integer bounds enclosing
// the table's payloads, the full range selected, and a mark every step kilograms.
func PayloadSlider(ds *dataset.Dataset, id string, step int) types.RangeSlider {
	if step <= 0 {
		step = DefaultMarkStep
	}
	// Rounded outward so the default value still selects every row.
	lo, hi := int(math.Floor(ds.MinPayload())), int(math.Ceil(ds.MaxPayload()))
	var marks []types.Mark
	for v := lo; v <= hi; v += step {
		marks = append(marks, types.Mark{Value: v, Label: strconv.Itoa(v)})
	}
	return types.RangeSlider{
		ID:    id,
		Min:   lo,
		Max:   hi,
		Step:  step,
		Value: [2]int{lo, hi},
		Marks: marks,
	}
}

// PieChart aggregates launch outcomes for the site selector.
//
// For "ALL" there is one slice per site weighted by its successful launches.
// For a single site there is one slice per outcome class present, weighted by
// its count and ordered by count descending. A selector matching no rows
// yields an empty chart rather than an error.
func PieChart(ds *dataset.Dataset, site string) types.PieChart {
	if site == model.AllSites {
		groups := dataset.GroupBy(ds.Records(), dataset.BySite)
		slices := make([]types.PieSlice, 0, len(groups))
		for _, g := range groups {
			var successes float64
			for _, r := range g.Records {
				successes += float64(r.Class)
			}
			slices = append(slices, types.PieSlice{Label: g.Key, Value: successes})
		}
		return types.PieChart{
			Title:  "Total Success Launches by Site",
			Site:   site,
			Slices: slices,
			Empty:  len(slices) == 0,
		}
	}

	rows := ds.Filter(func(r model.LaunchRecord) bool { return r.Site == site })
	groups := dataset.GroupBy(rows, dataset.ByClass)
	slices := make([]types.PieSlice, 0, len(groups))
	for _, g := range groups {
		slices = append(slices, types.PieSlice{Label: g.Key, Value: float64(len(g.Records))})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Label < slices[j].Label
	})
	return types.PieChart{
		Title:  "Total Success vs Failure Launches for site " + site,
		Site:   site,
		Slices: slices,
		Empty:  len(slices) == 0,
	}
}

// ScatterChart keeps the launches whose payload lies in rng (inclusive) and,
// unless site is "ALL", that launched from site. Points keep table order and
// are grouped by booster category. An empty result is a valid chart.
func ScatterChart(ds *dataset.Dataset, site string, rng model.PayloadRange) (types.ScatterChart, error) {
	if !rng.Valid() {
		return types.ScatterChart{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, rng.Low, rng.High)
	}
	rows := ds.Filter(func(r model.LaunchRecord) bool {
		if site != model.AllSites && r.Site != site {
			return false
		}
		return rng.Contains(r.PayloadMassKg)
	})

	points := make([]types.ScatterPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, types.ScatterPoint{
			X:     r.PayloadMassKg,
			Y:     r.Class,
			Group: r.BoosterCategory,
			Site:  r.Site,
		})
	}
	groups := dataset.GroupBy(rows, dataset.ByBooster)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Key)
	}

	title := "Correlation between Payload and Success for all Sites"
	if site != model.AllSites {
		title = "Correlation between Payload and Success for site " + site
	}
	return types.ScatterChart{
		Title:  title,
		Site:   site,
		XTitle: PayloadAxisTitle,
		YTitle: ClassAxisTitle,
		Low:    rng.Low,
		High:   rng.High,
		Groups: names,
		Points: points,
		Empty:  len(points) == 0,
	}, nil
}

// Summary counts launches and successes per site in first-seen order and
// lists the booster categories present.
func Summary(ds *dataset.Dataset) types.Summary {
	records := ds.Records()
	out := types.Summary{
		Records:    len(records),
		MinPayload: ds.MinPayload(),
		MaxPayload: ds.MaxPayload(),
	}
	for _, g := range dataset.GroupBy(records, dataset.BySite) {
		s := types.SiteSummary{Site: g.Key, Launches: len(g.Records)}
		for _, r := range g.Records {
			s.Successes += r.Class
		}
		out.Successes += s.Successes
		out.Sites = append(out.Sites, s)
	}
	for _, g := range dataset.GroupBy(records, dataset.ByBooster) {
		out.Boosters = append(out.Boosters, g.Key)
	}
	return out
}
