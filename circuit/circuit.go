// Package circuit proves that a published grade score was produced by the
// fitted model without revealing the model's coefficients.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/utils"
)

// LinearCircuit asserts Z = sum(W[i]*X[i]) + B*2^Precision.
// W and B are fixed point at scale 2^Precision and stay private. X is the
// public feature vector at the same scale; Z is the public score at scale
// 2^(2*Precision).
type LinearCircuit struct {
	W [grade.NumFeatures]frontend.Variable
	B frontend.Variable
	X [grade.NumFeatures]frontend.Variable `gnark:",public"`
	Z frontend.Variable                    `gnark:",public"`
}

func (c *LinearCircuit) Define(api frontend.API) error {
	acc := api.Mul(c.B, utils.ScalingFactor)
	for i := range c.W {
		acc = api.Add(acc, api.Mul(c.W[i], c.X[i]))
	}
	api.AssertIsEqual(acc, c.Z)
	return nil
}
