package circuit

import (
	"bytes"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	cs "github.com/consensys/gnark/constraint/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/rs/zerolog"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/model"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

var testModel = model.New([grade.NumFeatures]float64{0.012, 0.02, 0.008, 0.01, 0.1}, 0.75)

// singleFeatureCircuit is the one-input model a cache file may be left over
// from.
type singleFeatureCircuit struct {
	W frontend.Variable
	B frontend.Variable
	X frontend.Variable `gnark:",public"`
	Z frontend.Variable `gnark:",public"`
}

func (c *singleFeatureCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Add(api.Mul(c.W, c.X), api.Mul(c.B, utils.ScalingFactor)), c.Z)
	return nil
}

func compile(t *testing.T, c frontend.Circuit) *cs.SparseR1CS {
	t.Helper()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, c)
	if err != nil {
		t.Fatal(err)
	}
	return ccs.(*cs.SparseR1CS)
}

func fixed(t *testing.T, f float64) *big.Int {
	t.Helper()
	v, err := utils.FloatToFixed(f)
	if err != nil {
		t.Fatalf("FloatToFixed(%v): %v", f, err)
	}
	return v
}

func assign(t *testing.T, m *model.Model, f grade.Features) *LinearCircuit {
	t.Helper()
	var c LinearCircuit
	coef := m.Coef()
	w := make([]*big.Int, grade.NumFeatures)
	x := make([]*big.Int, grade.NumFeatures)
	for i := range coef {
		w[i], x[i] = fixed(t, coef[i]), fixed(t, f[i])
		c.W[i], c.X[i] = w[i], x[i]
	}
	b := fixed(t, m.Intercept())
	c.B, c.Z = b, utils.Dot(w, x, b)
	return &c
}

func TestLinearCircuitSolved(t *testing.T) {
	a := assign(t, testModel, grade.Features{78, 64.5, 92, 70, 3})
	if err := test.IsSolved(&LinearCircuit{}, a, ecc.BN254.ScalarField()); err != nil {
		t.Fatalf("IsSolved: %v", err)
	}
}

func TestLinearCircuitRejectsWrongScore(t *testing.T) {
	a := assign(t, testModel, grade.Features{78, 64.5, 92, 70, 3})
	a.Z = new(big.Int).Add(a.Z.(*big.Int), big.NewInt(1))
	if err := test.IsSolved(&LinearCircuit{}, a, ecc.BN254.ScalarField()); err == nil {
		t.Fatal("circuit accepted a wrong score")
	}
}

func TestProveVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("plonk setup in short mode")
	}
	cache := filepath.Join(t.TempDir(), "linear.cache")
	keys, err := Setup(cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	f := grade.Features{78, 64.5, 92, 70, 3}
	att, err := keys.Prove(testModel, f)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	want, _ := testModel.Predict(f)
	if att.Grade != want {
		t.Errorf("Grade = %v, want %v", att.Grade, want)
	}
	if err := Verify(keys.VK, att); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	forged := *att
	forged.Z = new(big.Int).Add(att.Z, big.NewInt(1<<20))
	if err := Verify(keys.VK, &forged); err == nil {
		t.Error("Verify accepted a forged score")
	}

	inflated := *att
	inflated.Score += 0.5
	if err := Verify(keys.VK, &inflated); !errors.Is(err, ErrScoreMismatch) {
		t.Errorf("Verify(wrong score) err = %v, want ErrScoreMismatch", err)
	}

	lied := *att
	lied.Grade = grade.A
	if att.Grade == grade.A {
		lied.Grade = grade.F
	}
	if err := Verify(keys.VK, &lied); !errors.Is(err, ErrGradeMismatch) {
		t.Errorf("Verify(wrong grade) err = %v, want ErrGradeMismatch", err)
	}

	// second setup must come from the cache and accept the same proof
	cached, err := Setup(cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("Setup from cache: %v", err)
	}
	var buf bytes.Buffer
	if err := cached.WriteVerifyingKey(&buf); err != nil {
		t.Fatal(err)
	}
	vk, err := ReadVerifyingKey(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(vk, att); err != nil {
		t.Errorf("Verify with cached key: %v", err)
	}
}

func TestProveRejectsOverflowingFeature(t *testing.T) {
	// fails before the keys are touched
	_, err := (&Keys{}).Prove(testModel, grade.Features{1e305, 0, 0, 0, 0})
	var invalid *model.InvalidInputError
	if !errors.As(err, &invalid) || invalid.Index != 0 {
		t.Fatalf("Prove err = %v, want InvalidInputError for feature 0", err)
	}
}

func TestVerifyRejectsOverflowingFeature(t *testing.T) {
	a := &Attestation{Features: grade.Features{0, 0, 0, -1e305, 0}, Z: big.NewInt(0)}
	var invalid *model.InvalidInputError
	if err := Verify(nil, a); !errors.As(err, &invalid) || invalid.Index != grade.Project {
		t.Fatalf("Verify err = %v, want InvalidInputError for feature %d", err, grade.Project)
	}
}

func TestSameShapeRejectsOtherCircuit(t *testing.T) {
	want := compile(t, &LinearCircuit{})
	if err := sameShape(want, &Keys{CCS: compile(t, &singleFeatureCircuit{})}); err == nil {
		t.Fatal("sameShape accepted a single-feature circuit")
	}
}

func TestSetupReplacesStaleCache(t *testing.T) {
	if testing.Short() {
		t.Skip("plonk setup in short mode")
	}
	cache := filepath.Join(t.TempDir(), "linear.cache")
	stale := compile(t, &singleFeatureCircuit{})
	srs, srsLagrange, err := unsafekzg.NewSRS(stale)
	if err != nil {
		t.Fatal(err)
	}
	pk, vk, err := plonk.Setup(stale, srs, srsLagrange)
	if err != nil {
		t.Fatal(err)
	}
	if err := saveCircuitData(cache, &Keys{CCS: stale, PK: pk, VK: vk}); err != nil {
		t.Fatal(err)
	}

	keys, err := Setup(cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	att, err := keys.Prove(testModel, grade.Features{78, 64, 92, 70, 3})
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(keys.VK, att); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	saved, err := loadCircuitData(cache)
	if err != nil {
		t.Fatal(err)
	}
	if err := sameShape(keys.CCS, saved); err != nil {
		t.Errorf("cache not rewritten: %v", err)
	}
}
