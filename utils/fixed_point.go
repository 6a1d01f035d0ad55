package utils

import (
	"errors"
	"math"
	"math/big"
)

// Precision is the number of fractional bits used when encoding reals as
// field elements.
const Precision = 16

var ScalingFactor = new(big.Int).Lsh(big.NewInt(1), Precision)

// ErrFixedOverflow is returned for values that are not finite once scaled
// by 2^Precision.
var ErrFixedOverflow = errors.New("fixed point: value out of range")

// FloatToFixed rounds f*2^Precision to the nearest integer.
func FloatToFixed(f float64) (*big.Int, error) {
	scaled := math.Round(f * float64(int64(1)<<Precision))
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return nil, ErrFixedOverflow
	}
	res, _ := new(big.Float).SetFloat64(scaled).Int(nil)
	return res, nil
}

// FixedToFloat decodes an integer carrying scale 2^(Precision*scales).
func FixedToFloat(i *big.Int, scales uint) float64 {
	f := new(big.Float).SetInt(i)
	div := new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), Precision*scales))
	res, _ := f.Quo(f, div).Float64()
	return res
}

// Dot computes sum(w[i]*x[i]) + b*2^Precision, the fixed-point encoding of
// w.x + b at scale 2^(2*Precision).
func Dot(w, x []*big.Int, b *big.Int) *big.Int {
	z := new(big.Int).Mul(b, ScalingFactor)
	var term big.Int
	for i := range w {
		term.Mul(w[i], x[i])
		z.Add(z, &term)
	}
	return z
}
