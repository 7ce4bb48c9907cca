// Package taxonomy loads the product family keyword table from YAML.
package taxonomy

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type file struct {
	Fallback *domain.FamilyRule  `yaml:"fallback"`
	Families []domain.FamilyRule `yaml:"families"`
}

// Load reads a taxonomy file. An empty path yields the built-in taxonomy.
func Load(path string) (domain.Taxonomy, error) {
	if path == "" {
		return domain.DefaultTaxonomy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a taxonomy document. Unknown keys are rejected. Without a
// fallback section the built-in fallback family is used.
func Parse(data []byte) (domain.Taxonomy, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc file
	if err := dec.Decode(&doc); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("decode: %w", err)
	}
	if len(doc.Families) == 0 {
		return domain.Taxonomy{}, errors.New("no families defined")
	}
	builtin := domain.DefaultTaxonomy().Rules()
	fallback := builtin[len(builtin)-1]
	if doc.Fallback != nil {
		fallback = *doc.Fallback
	}
	return domain.NewTaxonomy(doc.Families, fallback)
}
