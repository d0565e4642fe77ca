package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Promotion kinds accepted in seed files
const (
	PromotionPercentageOff     = "percentage_off"
	PromotionEveryNthHalfPrice = "every_nth_half_price"
	PromotionEveryNthFree      = "every_nth_free"
)

// File is the YAML layout of a seed catalog
type File struct {
	Promotions []PromotionSpec `yaml:"promotions"`
	Products   []ProductSpec   `yaml:"products"`
}

// PromotionSpec declares a named promotion that products refer to
type PromotionSpec struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	Percent float64 `yaml:"percent,omitempty"`
	N       int     `yaml:"n,omitempty"`
}

// ProductSpec declares one product. Stock is ignored for unlimited products
// and Maximum applies only to per_order_limited ones.
type ProductSpec struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Price     float64 `yaml:"price"`
	Stock     int     `yaml:"stock,omitempty"`
	Maximum   int     `yaml:"maximum,omitempty"`
	Promotion string  `yaml:"promotion,omitempty"`
}

//go:embed default.yaml
var defaultSeed []byte

// Default returns the built-in store
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// LoadFile loads and parses a YAML seed file from the given path
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Load parses a YAML seed document from r
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML data into a File
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return &f, nil
}

// Marshal serializes a File to YAML
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
