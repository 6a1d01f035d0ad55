package circuit

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/model"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

var (
	ErrGradeMismatch = errors.New("circuit: grade does not match proven score")
	ErrScoreMismatch = errors.New("circuit: score does not match proven Z")
)

// Attestation is a prediction together with a proof that Z was computed
// from Features by the committed model.
type Attestation struct {
	Features grade.Features `json:"features"`
	Z        *big.Int       `json:"z"`
	Score    float64        `json:"score"`
	Grade    grade.Grade    `json:"grade"`
	Proof    []byte         `json:"proof"`
}

// Prove scores f with m and proves the computation. The grade is derived
// from the fixed-point score, which can differ from the float score by
// about 2^-Precision per term.
func (k *Keys) Prove(m *model.Model, f grade.Features) (*Attestation, error) {
	// rejects NaN and Inf before they reach big.Float
	if _, err := m.Score(f); err != nil {
		return nil, err
	}

	x, err := encodeFeatures(f)
	if err != nil {
		return nil, err
	}
	coef := m.Coef()
	w := make([]*big.Int, grade.NumFeatures)
	for i, c := range coef {
		if w[i], err = utils.FloatToFixed(c); err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}
	}
	b, err := utils.FloatToFixed(m.Intercept())
	if err != nil {
		return nil, fmt.Errorf("intercept: %w", err)
	}
	z := utils.Dot(w, x, b)

	var assignment LinearCircuit
	for i := range w {
		assignment.W[i] = w[i]
		assignment.X[i] = x[i]
	}
	assignment.B = b
	assignment.Z = z

	full, err := frontend.NewWitness(&assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness: %w", err)
	}
	proof, err := plonk.Prove(k.CCS, k.PK, full)
	if err != nil {
		return nil, fmt.Errorf("prove: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %w", err)
	}

	score := utils.FixedToFloat(z, 2)
	return &Attestation{
		Features: f,
		Z:        z,
		Score:    score,
		Grade:    model.Discretize(score),
		Proof:    buf.Bytes(),
	}, nil
}

// Verify checks the proof against the attestation's public inputs and that
// the claimed score and grade follow from Z.
func Verify(vk plonk.VerifyingKey, a *Attestation) error {
	if a.Z == nil {
		return errors.New("circuit: attestation has no score")
	}
	x, err := encodeFeatures(a.Features)
	if err != nil {
		return err
	}
	var public LinearCircuit
	for i := range x {
		public.X[i] = x[i]
	}
	public.Z = a.Z

	pw, err := frontend.NewWitness(&public, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness: %w", err)
	}
	proof := plonk.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(a.Proof)); err != nil {
		return fmt.Errorf("read proof: %w", err)
	}
	if err := plonk.Verify(proof, vk, pw); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	score := utils.FixedToFloat(a.Z, 2)
	if score != a.Score {
		return fmt.Errorf("%w: claimed %v, Z gives %v", ErrScoreMismatch, a.Score, score)
	}
	if g := model.Discretize(score); g != a.Grade {
		return fmt.Errorf("%w: claimed %v, score gives %v", ErrGradeMismatch, a.Grade, g)
	}
	return nil
}

// encodeFeatures maps f to public inputs. A value that is not finite or
// overflows at 2^Precision is an *model.InvalidInputError.
func encodeFeatures(f grade.Features) ([]*big.Int, error) {
	x := make([]*big.Int, grade.NumFeatures)
	for i, v := range f {
		var err error
		if x[i], err = utils.FloatToFixed(v); err != nil {
			return nil, &model.InvalidInputError{Index: i, Value: v}
		}
	}
	return x, nil
}
