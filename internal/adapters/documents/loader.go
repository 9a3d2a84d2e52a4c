package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/grugslair/blob-arena-contracts/internal/domain"
	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// extensions are tried in order for a document name.
var extensions = []string{".json", ".yaml", ".yml"}

// Loader reads configuration documents from a directory. A sibling
// <name>.schema.json, when present, validates the document.
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a loader over the profile's configuration directory
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{dir: cfg.ConfigDir(), log: log}
}

// LoadDocument reads and validates the document called name
func (l *Loader) LoadDocument(ctx context.Context, name string) (map[string]any, error) {
	path, err := l.find(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	switch filepath.Ext(path) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		// keep integers exact; felts overflow float64
		dec.UseNumber()
		err = dec.Decode(&doc)
	default:
		var raw any
		if err = yaml.Unmarshal(data, &raw); err == nil && raw != nil {
			var ok bool
			if doc, ok = stringKeys(raw).(map[string]any); !ok {
				err = fmt.Errorf("expected a mapping at the top level, got %T", raw)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := l.validate(name, doc); err != nil {
		return nil, err
	}
	l.log.Debug("loaded document", "name", name, "path", path)
	return doc, nil
}

// stringKeys rewrites YAML mappings with non-string keys (numeric item
// indexes) into map[string]any, recursively.
func stringKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = stringKeys(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = stringKeys(e)
		}
		return x
	}
	return v
}

func (l *Loader) find(name string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: document %s in %s", domain.ErrNotFound, name, l.dir)
}

func (l *Loader) validate(name string, doc map[string]any) error {
	schemaPath := filepath.Join(l.dir, name+".schema.json")
	if _, err := os.Stat(schemaPath); err != nil {
		return nil
	}
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", filepath.Base(schemaPath), err)
	}
	if err := schema.Validate(any(doc)); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, name, err)
	}
	return nil
}

var _ usecase.DocumentLoader = (*Loader)(nil)
