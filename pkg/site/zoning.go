package site

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed zoning_defaults.yaml
var defaultZoningYAML []byte

// DefaultDistrict is assumed when a parcel has no zoning information.
const DefaultDistrict = "R1-1"

// LoadZoning reads a zoning table from a YAML list of districts.
func LoadZoning(path string) (ZoningTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading zoning file")
	}
	return ParseZoning(data)
}

// ParseZoning decodes a YAML list of districts. Duplicate districts are an
// error.
func ParseZoning(data []byte) (ZoningTable, error) {
	var zones []Zone
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return nil, errors.Wrap(err, "parsing zoning YAML")
	}
	t := make(ZoningTable, len(zones))
	for i, z := range zones {
		if z.District == "" {
			return nil, errors.Errorf("zoning entry %d has no district", i)
		}
		if _, dup := t[z.District]; dup {
			return nil, errors.Errorf("duplicate zoning district %q", z.District)
		}
		t[z.District] = z
	}
	return t, nil
}

// DefaultZoning returns the built-in table of residential districts.
func DefaultZoning() ZoningTable {
	t, err := ParseZoning(defaultZoningYAML)
	if err != nil {
		panic("site: invalid built-in zoning table: " + err.Error())
	}
	return t
}
