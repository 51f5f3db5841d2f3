package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/sessionsync/errors"
	"github.com/grovetools/sessionsync/pkg/models"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// catalogFile is the document form of a catalog: a top-level "products" list.
type catalogFile struct {
	Products []models.Product `json:"products" yaml:"products" toml:"products"`
}

// LoadCatalogFile reads products from a YAML, TOML or JSON file. YAML and
// JSON files may hold either a bare list or a "products" key; TOML files use
// [[products]] tables.
func LoadCatalogFile(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("cannot read catalog %s", path)).
			WithDetail("path", path)
	}

	products, err := parseCatalog(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("cannot parse catalog %s", path)).
			WithDetail("path", path)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func parseCatalog(data []byte, ext string) ([]models.Product, error) {
	switch ext {
	case ".toml":
		var doc catalogFile
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Products, nil

	case ".json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []models.Product
			err := json.Unmarshal(trimmed, &list)
			return list, err
		}
		var doc catalogFile
		err := json.Unmarshal(trimmed, &doc)
		return doc.Products, err

	case ".yml", ".yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var list []models.Product
			err := node.Decode(&list)
			return list, err
		}
		var doc catalogFile
		err := node.Decode(&doc)
		return doc.Products, err

	default:
		return nil, fmt.Errorf("unsupported catalog format %q (use .yml, .yaml, .toml or .json)", ext)
	}
}
