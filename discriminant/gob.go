package discriminant

import (
	"bytes"
	"encoding/gob"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// modelSnapshot is the gob form of Model. SymDense has no binary
// marshaler, so covariances travel as dense copies.
type modelSnapshot struct {
	Classes     []float64
	Means       *mat.Dense
	Covariances []*mat.Dense
	Mode        Mode
}

// GobEncode implements gob.GobEncoder.
func (m *Model) GobEncode() ([]byte, error) {
	snap := modelSnapshot{
		Classes: m.Classes,
		Means:   m.Means,
		Mode:    m.Mode,
	}
	for _, cov := range m.Covariances {
		snap.Covariances = append(snap.Covariances, mat.DenseCopyOf(cov))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, errors.Wrap(err, "discriminant: encode model")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (m *Model) GobDecode(data []byte) error {
	var snap modelSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return errors.Wrap(err, "discriminant: decode model")
	}
	if snap.Means == nil || len(snap.Covariances) == 0 {
		return errors.NewValueError("Model.GobDecode", "missing means or covariances")
	}

	covs := make([]*mat.SymDense, len(snap.Covariances))
	for i, dense := range snap.Covariances {
		r, c := dense.Dims()
		if r != c {
			return errors.NewDimensionError("Model.GobDecode", r, c, 1)
		}
		sym := mat.NewSymDense(r, nil)
		for a := 0; a < r; a++ {
			for b := a; b < r; b++ {
				sym.SetSym(a, b, dense.At(a, b))
			}
		}
		covs[i] = sym
	}

	m.Classes = snap.Classes
	m.Means = snap.Means
	m.Covariances = covs
	m.Mode = snap.Mode
	return nil
}
