package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// catalogFile is the on-disk layout of a product seed file:
//
//	[[product]]
//	id = "p1"
//	name = "Startpakke"
//	price = 1000
//	commissionable = true
type catalogFile struct {
	Products []*Product `toml:"product"`
}

// LoadFile reads a TOML product seed file. Unknown keys are rejected so a
// typo cannot silently drop a field such as commissionable.
func LoadFile(path string) ([]*Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes TOML product seed data and validates the result.
func Parse(data string) ([]*Product, error) {
	var f catalogFile
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalogFile, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidCatalogFile, strings.Join(keys, ", "))
	}
	if _, err := New(f.Products); err != nil {
		return nil, err
	}
	return f.Products, nil
}
