package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Provider produces a validated catalog. Implementations return *LoadError on failure.
type Provider interface {
	Load(ctx context.Context) (Catalog, error)
}

// FileProvider reads the catalog document from the local filesystem.
type FileProvider struct {
	path string
}

var _ Provider = (*FileProvider)(nil)

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) Load(ctx context.Context) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, transportErr(p.path, err)
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Catalog{}, transportErr(p.path, err)
	}
	return Decode(p.path, data)
}

// Decode parses and validates a raw catalog document.
func Decode(source string, data []byte) (Catalog, error) {
	var doc Catalog
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Catalog{}, validationErr(source, fmt.Errorf("decode: %w", err))
	}
	if err := Validate(doc); err != nil {
		return Catalog{}, validationErr(source, err)
	}
	return doc, nil
}
