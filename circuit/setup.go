package circuit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	cs "github.com/consensys/gnark/constraint/bn254"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/rs/zerolog"
)

// Keys is a compiled circuit with its PLONK keys.
type Keys struct {
	CCS *cs.SparseR1CS
	PK  plonk.ProvingKey
	VK  plonk.VerifyingKey
}

// Setup loads the circuit from cachePath, or runs the PLONK setup and
// writes the cache when the file is missing, unreadable or holds a different
// circuit. An empty cachePath disables caching. The SRS comes from unsafekzg
// and is only fit for demos.
func Setup(cachePath string, log zerolog.Logger) (*Keys, error) {
	log.Info().Msg("compiling linear circuit")
	var linearCircuit LinearCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, &linearCircuit)
	if err != nil {
		return nil, fmt.Errorf("linear circuit compilation: %w", err)
	}
	scsys, ok := ccs.(*cs.SparseR1CS)
	if !ok {
		return nil, errors.New("linear circuit: unexpected constraint system type")
	}

	if cachePath != "" {
		if _, err := os.Stat(cachePath); err == nil {
			log.Info().Str("cache", cachePath).Msg("loading linear circuit from cache")
			keys, err := loadCircuitData(cachePath)
			if err == nil {
				err = sameShape(scsys, keys)
			}
			if err == nil {
				log.Info().Int("constraints", keys.CCS.GetNbConstraints()).Msg("linear circuit loaded")
				return keys, nil
			}
			log.Warn().Err(err).Str("cache", cachePath).Msg("unusable circuit cache, running setup")
		}
	}

	srs, srsLagrange, err := unsafekzg.NewSRS(scsys)
	if err != nil {
		return nil, fmt.Errorf("srs: %w", err)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, fmt.Errorf("plonk setup: %w", err)
	}
	keys := &Keys{CCS: scsys, PK: pk, VK: vk}
	log.Info().Int("constraints", scsys.GetNbConstraints()).Msg("linear circuit compiled")

	if cachePath != "" {
		if err := saveCircuitData(cachePath, keys); err != nil {
			log.Warn().Err(err).Str("cache", cachePath).Msg("failed to save circuit cache")
		}
	}
	return keys, nil
}

// sameShape rejects cached keys built for another circuit.
func sameShape(want *cs.SparseR1CS, keys *Keys) error {
	got := keys.CCS
	if got.GetNbPublicVariables() != want.GetNbPublicVariables() ||
		got.GetNbSecretVariables() != want.GetNbSecretVariables() ||
		got.GetNbConstraints() != want.GetNbConstraints() {
		return fmt.Errorf("cached circuit has %d public, %d secret, %d constraints; want %d, %d, %d",
			got.GetNbPublicVariables(), got.GetNbSecretVariables(), got.GetNbConstraints(),
			want.GetNbPublicVariables(), want.GetNbSecretVariables(), want.GetNbConstraints())
	}
	if n := keys.VK.NbPublicWitness(); n != want.GetNbPublicVariables() {
		return fmt.Errorf("cached verifying key expects %d public inputs, want %d", n, want.GetNbPublicVariables())
	}
	return nil
}

// WriteVerifyingKey serializes the verifying key.
func (k *Keys) WriteVerifyingKey(w io.Writer) error {
	_, err := k.VK.WriteTo(w)
	return err
}

func ReadVerifyingKey(r io.Reader) (plonk.VerifyingKey, error) {
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}
	return vk, nil
}

// saveCircuitData writes ccs, pk and vk back to back.
func saveCircuitData(filename string, keys *Keys) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := keys.CCS.WriteTo(file); err != nil {
		return err
	}
	if _, err := keys.PK.WriteTo(file); err != nil {
		return err
	}
	if _, err := keys.VK.WriteTo(file); err != nil {
		return err
	}
	return file.Sync()
}

func loadCircuitData(filename string) (*Keys, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ccs := &cs.SparseR1CS{}
	if _, err := ccs.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("read ccs: %w", err)
	}
	pk := plonk.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("read pk: %w", err)
	}
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("read vk: %w", err)
	}
	return &Keys{CCS: ccs, PK: pk, VK: vk}, nil
}
