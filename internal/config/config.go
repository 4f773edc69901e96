// Package config loads the environment a building is evaluated in: the
// site, the moment, the ground and the scene around the building.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aclements/solargrid/building"
	"github.com/aclements/solargrid/grid"
	"github.com/aclements/solargrid/scene"
	"github.com/aclements/solargrid/sky"
	"gopkg.in/yaml.v3"
)

type Site struct {
	// Latitude and Longitude are in degrees, north and east positive.
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	// Elevation is in meters above sea level.
	Elevation float64 `yaml:"elevation" json:"elevation"`
}

// Surroundings are STL meshes of the things around the building.
// Relative paths are relative to the environment file.
type Surroundings struct {
	Buildings []string `yaml:"buildings" json:"buildings,omitempty"`
	Foliage   []string `yaml:"foliage" json:"foliage,omitempty"`
	// Scale converts mesh units to meters. Zero means 1.
	Scale float64 `yaml:"scale" json:"scale,omitempty"`
}

type Environment struct {
	Site Site `yaml:"site" json:"site"`

	// Time is the simulated instant.
	Time time.Time `yaml:"time" json:"time"`

	AirMass sky.AirMass `yaml:"airMass" json:"airMass"`

	// Ground defaults to sky.DefaultGround.
	Ground *sky.Ground `yaml:"ground" json:"ground,omitempty"`

	grid.Config `yaml:",inline"`

	Surroundings Surroundings `yaml:"surroundings" json:"surroundings"`

	// dir is the directory of the environment file.
	dir string
}

// Load reads an environment from a YAML file.
func Load(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading environment file: %w", err)
	}
	e, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.dir = filepath.Dir(path)
	return e, nil
}

// Parse decodes a YAML or JSON environment.
func Parse(data []byte) (*Environment, error) {
	var e Environment
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("parsing environment YAML: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Validate checks that the site is on Earth and the time is set.
func (e *Environment) Validate() error {
	if !(e.Site.Latitude >= -90 && e.Site.Latitude <= 90) {
		return fmt.Errorf("latitude %v out of range", e.Site.Latitude)
	}
	if !(e.Site.Longitude >= -180 && e.Site.Longitude <= 180) {
		return fmt.Errorf("longitude %v out of range", e.Site.Longitude)
	}
	if e.Time.IsZero() {
		return fmt.Errorf("no time given")
	}
	return nil
}

// Env returns the grid environment at time t, shaded by shadow.
func (e *Environment) Env(t time.Time, shadow grid.ShadowOracle, logger *slog.Logger) *grid.Env {
	ground := sky.DefaultGround()
	if e.Ground != nil {
		ground = *e.Ground
	}
	return &grid.Env{
		Sun:       sky.SunAt(t, e.Site.Latitude, e.Site.Longitude),
		Ground:    ground,
		Elevation: e.Site.Elevation,
		AirMass:   e.AirMass,
		Shadow:    shadow,
		Config:    e.Config,
		Logger:    logger,
	}
}

// Scene returns the occluders around and including b. With
// withSurroundings false, the STL meshes are skipped.
func (e *Environment) Scene(b *building.Building, withSurroundings bool) (*scene.Scene, error) {
	s := scene.New()
	if err := b.AddTo(s); err != nil {
		return nil, err
	}
	if !withSurroundings {
		return s, nil
	}
	scale := e.Surroundings.Scale
	if scale == 0 {
		scale = 1
	}
	for _, p := range e.Surroundings.Buildings {
		if err := s.LoadSTL(e.path(p), scale, false); err != nil {
			return nil, err
		}
	}
	for _, p := range e.Surroundings.Foliage {
		if err := s.LoadSTL(e.path(p), scale, true); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (e *Environment) path(p string) string {
	if filepath.IsAbs(p) || e.dir == "" {
		return p
	}
	return filepath.Join(e.dir, p)
}
