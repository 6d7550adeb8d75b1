// Package dataset holds the immutable launch table the dashboard is built on.
//
// A Dataset is constructed once (from CSV or from records) and then only read.
// Accessors return copies so callers can never mutate the shared table.
package dataset

import (
	"fmt"
	"math"

	"github.com/okian/launchdash/internal/domain/model"
)

// Dataset is an ordered, non-empty, read-only sequence of launch records.
type Dataset struct {
	records    []model.LaunchRecord
	sites      []string
	minPayload float64
	maxPayload float64
}

// Group is a run of records sharing a key, in first-seen key order.
type Group struct {
	Key     string
	Records []model.LaunchRecord
}

// New builds a Dataset from records. The slice is copied.
func New(records []model.LaunchRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	d := &Dataset{
		records:    make([]model.LaunchRecord, len(records)),
		minPayload: math.Inf(1),
		maxPayload: math.Inf(-1),
	}
	copy(d.records, records)

	seen := make(map[string]struct{})
	for i, r := range d.records {
		if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) {
			return nil, fmt.Errorf("%w: record %d: payload mass is not finite", ErrMalformedRow, i)
		}
		if r.Class != model.ClassFailure && r.Class != model.ClassSuccess {
			return nil, fmt.Errorf("%w: record %d: class %d not in {0,1}", ErrMalformedRow, i, r.Class)
		}
		if _, ok := seen[r.Site]; !ok {
			seen[r.Site] = struct{}{}
			d.sites = append(d.sites, r.Site)
		}
		d.minPayload = math.Min(d.minPayload, r.PayloadMassKg)
		d.maxPayload = math.Max(d.maxPayload, r.PayloadMassKg)
	}
	return d, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []model.LaunchRecord {
	out := make([]model.LaunchRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Sites returns the distinct site names in first-seen order.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// HasSite reports whether any record was launched from site.
func (d *Dataset) HasSite(site string) bool {
	for _, s := range d.sites {
		if s == site {
			return true
		}
	}
	return false
}

// MinPayload returns the smallest payload mass in the table.
func (d *Dataset) MinPayload() float64 { return d.minPayload }

// MaxPayload returns the largest payload mass in the table.
func (d *Dataset) MaxPayload() float64 { return d.maxPayload }

// Bounds returns the full payload range [min, max].
func (d *Dataset) Bounds() model.PayloadRange {
	return model.PayloadRange{Low: d.minPayload, High: d.maxPayload}
}

// Filter returns the records matching keep, preserving load order.
func (d *Dataset) Filter(keep func(model.LaunchRecord) bool) []model.LaunchRecord {
	var out []model.LaunchRecord
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// GroupBy partitions records by key. Groups appear in first-seen key order and
// keep the relative order of their records.
func GroupBy(records []model.LaunchRecord, key func(model.LaunchRecord) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// BySite is a GroupBy key selecting the launch site.
func BySite(r model.LaunchRecord) string { return r.Site }

// ByBooster is a GroupBy key selecting the booster category.
func ByBooster(r model.LaunchRecord) string { return r.BoosterCategory }

// ByClass is a GroupBy key selecting the outcome class as text.
func ByClass(r model.LaunchRecord) string { return fmt.Sprintf("%d", r.Class) }
