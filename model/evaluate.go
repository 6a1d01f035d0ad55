package model

import (
	"github.com/santhoshcheemala/ZKGrade/utils"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes how well a model reproduces a labelled set.
type Report struct {
	Total    int     `json:"total"`
	Matches  int     `json:"matches"`
	Accuracy float64 `json:"accuracy"`
	// RSquared is computed on the continuous score against the grade encoding.
	RSquared float64 `json:"r_squared"`
}

// Evaluate scores every record. Records that cannot be scored count as
// misses and are left out of R².
func Evaluate(m *Model, records []utils.Record) Report {
	r := Report{Total: len(records)}
	estimates := make([]float64, 0, len(records))
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		raw, err := m.Score(rec.Features)
		if err != nil {
			continue
		}
		estimates = append(estimates, raw)
		values = append(values, float64(rec.Grade.Value()))
		if Discretize(raw) == rec.Grade {
			r.Matches++
		}
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Matches) / float64(r.Total)
	}
	if len(values) > 1 {
		r.RSquared = stat.RSquaredFrom(estimates, values, nil)
	}
	return r
}
