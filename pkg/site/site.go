package site

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the file LoadProject looks for in a project directory.
// ProjectFileTOML is tried when it is absent.
const (
	ProjectFile     = "site.yaml"
	ProjectFileTOML = "site.toml"
)

// Load reads a project from a YAML file, or a TOML file when the name ends
// in .toml.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading project file")
	}

	parse := Parse
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parse = ParseTOML
	}
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	p.Dir = filepath.Dir(path)
	return p, nil
}

// Parse decodes a project from YAML bytes.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parsing project YAML")
	}
	return &p, nil
}

// ParseTOML decodes a project from TOML bytes.
func ParseTOML(data []byte) (*Project, error) {
	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parsing project TOML")
	}
	return &p, nil
}

// LoadProject loads a project from a project directory.
// It looks for site.yaml, then site.toml, in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	path := filepath.Join(projectDir, ProjectFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		alt := filepath.Join(projectDir, ProjectFileTOML)
		if _, err := os.Stat(alt); err == nil {
			path = alt
		}
	}
	return Load(path)
}

// Open loads a project from either a project directory or a project file.
func Open(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening project")
	}
	if info.IsDir() {
		return LoadProject(path)
	}
	return Load(path)
}

// Resolve returns path relative to the project directory. Absolute paths and
// empty strings are returned unchanged.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Dir == "" {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// ReadParcel returns the raw parcel GeoJSON.
func (p *Project) ReadParcel() ([]byte, error) {
	if p.Parcel == "" {
		return nil, errors.New("project has no parcel file")
	}
	data, err := os.ReadFile(p.Resolve(p.Parcel))
	if err != nil {
		return nil, errors.Wrapf(err, "reading parcel %s", p.Parcel)
	}
	return data, nil
}

// ReadFootprint returns the raw footprint GeoJSON, or nil when the project
// has none.
func (p *Project) ReadFootprint() ([]byte, error) {
	if p.Footprint == "" {
		return nil, nil
	}
	data, err := os.ReadFile(p.Resolve(p.Footprint))
	if err != nil {
		return nil, errors.Wrapf(err, "reading footprint %s", p.Footprint)
	}
	return data, nil
}

// ZoningTable returns the project's zoning table: the file named by Zoning
// if set, otherwise the built-in defaults.
func (p *Project) ZoningTable() (ZoningTable, error) {
	if p.Zoning == "" {
		return DefaultZoning(), nil
	}
	return LoadZoning(p.Resolve(p.Zoning))
}

// Zone returns the rules for the project's district with any setback
// overrides applied.
func (p *Project) Zone(table ZoningTable) (Zone, error) {
	z, ok := table.Lookup(p.District)
	if !ok {
		return Zone{}, errors.Errorf("unknown zoning district %q", p.District)
	}
	if p.Setbacks.Front != nil {
		z.Front = *p.Setbacks.Front
	}
	if p.Setbacks.Side != nil {
		z.Side = *p.Setbacks.Side
	}
	if p.Setbacks.Rear != nil {
		z.Rear = *p.Setbacks.Rear
	}
	return z, nil
}
