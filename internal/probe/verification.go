package probe

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/launchdash/internal/domain/types"
)

const tolerance = 1e-9

// verifyFigure checks a returned figure against the dataset summary and
// the request that produced it. It returns an empty string when they agree.
func verifyFigure(cat *Catalog, req Request, raw json.RawMessage) string {
	if req.Output == pieOutputID {
		var pie types.PieChart
		if err := json.Unmarshal(raw, &pie); err != nil {
			return fmt.Sprintf("decode pie: %v", err)
		}
		return verifyPie(cat.Summary, req.site, pie)
	}
	var sc types.ScatterChart
	if err := json.Unmarshal(raw, &sc); err != nil {
		return fmt.Sprintf("decode scatter: %v", err)
	}
	return verifyScatter(cat.Summary, req, sc)
}

// verifyPie checks that the slices add up to the expected total: all
// successes for ALL, all launches of the site otherwise. A zero total
// passes with no slices or with zero-valued ones.
func verifyPie(sum types.Summary, site string, pie types.PieChart) string {
	want := 0
	if site == allSites {
		want = sum.Successes
	} else {
		for _, s := range sum.Sites {
			if s.Site == site {
				want = s.Launches
			}
		}
	}
	if got := pie.Total(); math.Abs(got-float64(want)) > tolerance {
		return fmt.Sprintf("pie for %q totals %.0f, want %d", site, got, want)
	}
	return ""
}

// verifyScatter checks that every point lies in the requested range and,
// for a single site, belongs to that site.
func verifyScatter(sum types.Summary, req Request, sc types.ScatterChart) string {
	limit := sum.Records
	if req.site != allSites {
		limit = 0
		for _, s := range sum.Sites {
			if s.Site == req.site {
				limit = s.Launches
			}
		}
	}
	if len(sc.Points) > limit {
		return fmt.Sprintf("scatter for %q has %d points, at most %d launches", req.site, len(sc.Points), limit)
	}
	for _, p := range sc.Points {
		if p.X < req.low || p.X > req.high {
			return fmt.Sprintf("point at %.1f kg outside [%.1f, %.1f]", p.X, req.low, req.high)
		}
		if req.site != allSites && p.Site != req.site {
			return fmt.Sprintf("point from %q in scatter for %q", p.Site, req.site)
		}
		if p.Y != 0 && p.Y != 1 {
			return fmt.Sprintf("point class %d is not 0 or 1", p.Y)
		}
	}
	return ""
}
