package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoData signals that the input file could not be read at all. The caller
// decides whether that is fatal; typically it means the operator pointed the
// tool at the wrong path.
var ErrNoData = errors.New("no event data")

// ReadFile loads a partial export from disk. Unreadable files map to
// ErrNoData; everything past that (malformed JSON, failed version gate) is a
// hard error.
func ReadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	return Decode(raw)
}

// Decode parses a raw export document and runs the version gate.
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding partial export: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
