package export

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/relmodel/relmodel/internal/errs"
)

// WriteYAML encodes the document as YAML to w.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to encode schema document", err)
	}
	return enc.Close()
}

// ReadYAML decodes a document previously written with WriteYAML.
func ReadYAML(r io.Reader) (Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to decode schema document", err)
	}
	return doc, nil
}
