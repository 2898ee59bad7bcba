package model

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

// SaveModel gob-encodes model into filename. The file is written to a
// temporary name in the same directory and renamed, so a failed save leaves
// any previous file intact.
//
//	m, _ := discriminant.LearnQDA(X, y)
//	err := model.SaveModel(m, "qda.gob")
func SaveModel(model interface{}, filename string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "SaveModel: create temp for %s", filename)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = SaveModelToWriter(model, tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "SaveModel: close %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return errors.Wrapf(err, "SaveModel: rename to %s", filename)
	}
	return nil
}

// LoadModel decodes a model written by SaveModel into model, which must be a
// pointer.
func LoadModel(model interface{}, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "LoadModel: open %s", filename)
	}
	defer f.Close()
	return LoadModelFromReader(model, f)
}

// SaveModelToWriter gob-encodes model into w.
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return errors.Wrapf(err, "SaveModelToWriter: encode %T", model)
	}
	return nil
}

// LoadModelFromReader gob-decodes a model from r.
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return errors.Wrapf(err, "LoadModelFromReader: decode %T", model)
	}
	return nil
}
