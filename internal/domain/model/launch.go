// Package model contains domain models passed between layers.
package model

import "math"

// AllSites is the site selector value that disables site filtering.
const AllSites = "ALL"

// Outcome classes carried by the class column.
const (
	ClassFailure = 0
	ClassSuccess = 1
)

// LaunchRecord is one historical launch. Records are never mutated after load.
type LaunchRecord struct {
	Site            string  // launch site name, e.g. "CCAFS LC-40"
	PayloadMassKg   float64 // payload mass in kilograms
	BoosterCategory string  // booster version category, used for color grouping
	Class           int     // 1 = success, 0 = failure
}

// PayloadRange is a closed payload interval [Low, High] in kilograms.
type PayloadRange struct {
	Low  float64
	High float64
}

// Valid reports whether the range is finite and ordered.
func (r PayloadRange) Valid() bool {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return false
	}
	return r.Low <= r.High
}

// Contains reports whether mass lies inside the range, both ends inclusive.
func (r PayloadRange) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}
