package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/stackup/pkg/errors"
)

// WriteJSON encodes d as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode board document")
	}
	return nil
}

// ExportJSON writes d to a file at path.
func ExportJSON(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
