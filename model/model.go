// Package model fits an ordinary least-squares regression from the five
// student features to the numeric grade encoding and turns its continuous
// output back into a letter grade.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinRecords is the number of coefficients plus the intercept.
const MinRecords = grade.NumFeatures + 1

// Model holds fitted linear regression parameters. It is immutable.
type Model struct {
	coef      [grade.NumFeatures]float64
	intercept float64
}

func New(coef [grade.NumFeatures]float64, intercept float64) *Model {
	return &Model{coef: coef, intercept: intercept}
}

func (m *Model) Coef() [grade.NumFeatures]float64 { return m.coef }

func (m *Model) Intercept() float64 { return m.intercept }

// Fit solves min ||X*beta + b - y||^2 where y is the grade encoding.
// The intercept is recovered from column means, with beta solved by QR
// least squares on the centered design matrix.
func Fit(records []utils.Record) (*Model, error) {
	n := len(records)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if n < MinRecords {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrUnderdetermined, n, MinRecords)
	}

	x := mat.NewDense(n, grade.NumFeatures, nil)
	y := make([]float64, n)
	for i, r := range records {
		if err := checkFinite(r.Features[:]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		x.SetRow(i, r.Features[:])
		y[i] = float64(r.Grade.Value())
	}

	var means [grade.NumFeatures]float64
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	yMean := stat.Mean(y, nil)

	x.Apply(func(_, j int, v float64) float64 { return v - means[j] }, x)
	yc := mat.NewVecDense(n, nil)
	for i := range y {
		yc.SetVec(i, y[i]-yMean)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, yc); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) || math.IsNaN(float64(cond)) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	m := &Model{}
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j)
	}
	if err := checkFinite(m.coef[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	m.intercept = yMean - floats.Dot(m.coef[:], means[:])
	return m, nil
}

// Score returns the continuous prediction coef.f + intercept.
func (m *Model) Score(f grade.Features) (float64, error) {
	if err := checkFinite(f[:]); err != nil {
		return 0, err
	}
	raw := floats.Dot(m.coef[:], f[:]) + m.intercept
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, &InvalidInputError{Index: -1, Value: raw}
	}
	return raw, nil
}

// Predict scores f and discretizes the result.
func (m *Model) Predict(f grade.Features) (grade.Grade, error) {
	raw, err := m.Score(f)
	if err != nil {
		return 0, err
	}
	return Discretize(raw), nil
}

// Discretize rounds raw to the nearest integer, ties away from zero, and
// clamps it into the grade scale. raw must not be NaN.
func Discretize(raw float64) grade.Grade {
	r := math.Round(raw)
	switch {
	case r < float64(grade.MinValue):
		return grade.F
	case r > float64(grade.MaxValue):
		return grade.A
	}
	return grade.Clamp(int(r))
}
