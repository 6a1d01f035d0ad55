package model

import (
	"sync"
	"sync/atomic"

	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

// Predictor is either untrained or trained. It becomes trained after the
// first successful Fit and stays that way; there is no retraining.
// The zero value is an untrained predictor. Predict may be called
// concurrently.
type Predictor struct {
	mu    sync.Mutex
	model atomic.Pointer[Model]
}

func NewPredictor() *Predictor {
	return &Predictor{}
}

// Fit trains the predictor. A failed fit leaves it untrained.
func (p *Predictor) Fit(records []utils.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model.Load() != nil {
		return ErrAlreadyTrained
	}
	m, err := Fit(records)
	if err != nil {
		return err
	}
	p.model.Store(m)
	return nil
}

func (p *Predictor) Trained() bool {
	return p.model.Load() != nil
}

func (p *Predictor) Model() (*Model, error) {
	m := p.model.Load()
	if m == nil {
		return nil, ErrModelNotReady
	}
	return m, nil
}

func (p *Predictor) Score(f grade.Features) (float64, error) {
	m, err := p.Model()
	if err != nil {
		return 0, err
	}
	return m.Score(f)
}

func (p *Predictor) Predict(f grade.Features) (grade.Grade, error) {
	m, err := p.Model()
	if err != nil {
		return 0, err
	}
	return m.Predict(f)
}
