package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sabasehrish/larcorealg/internal/geom"
)

// GeometryConfig is the startup configuration of the geometry service.
// Fields are pointers so that a partial JSON file only overrides what
// it names; the Get* methods supply defaults for the rest.
type GeometryConfig struct {
	DetectorName    *string  `json:"detector_name,omitempty"`
	PositionEpsilon *float64 `json:"position_epsilon,omitempty"`
	MinWireZDist    *float64 `json:"min_wire_z_dist,omitempty"`
}

// EmptyGeometryConfig returns a GeometryConfig with all fields set to nil.
func EmptyGeometryConfig() *GeometryConfig {
	return &GeometryConfig{}
}

// LoadGeometryConfig loads a GeometryConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under
// the max file size. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
func LoadGeometryConfig(path string) (*GeometryConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyGeometryConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *GeometryConfig) Validate() error {
	if c.PositionEpsilon != nil {
		if *c.PositionEpsilon < 0 || *c.PositionEpsilon > 1 {
			return fmt.Errorf("position_epsilon must be between 0 and 1, got %f", *c.PositionEpsilon)
		}
	}
	if c.MinWireZDist != nil {
		if *c.MinWireZDist < 0 {
			return fmt.Errorf("min_wire_z_dist must be non-negative, got %f", *c.MinWireZDist)
		}
	}
	return nil
}

// GetDetectorName returns the detector_name value or the default.
func (c *GeometryConfig) GetDetectorName() string {
	if c.DetectorName == nil || *c.DetectorName == "" {
		return geom.DefaultParams().DetectorName
	}
	return *c.DetectorName
}

// GetPositionEpsilon returns the position_epsilon value or the default.
func (c *GeometryConfig) GetPositionEpsilon() float64 {
	if c.PositionEpsilon == nil {
		return geom.DefaultParams().PositionEpsilon
	}
	return *c.PositionEpsilon
}

// GetMinWireZDist returns the min_wire_z_dist value or the default.
func (c *GeometryConfig) GetMinWireZDist() float64 {
	if c.MinWireZDist == nil {
		return geom.DefaultParams().MinWireZDist
	}
	return *c.MinWireZDist
}

// Params assembles the geometry service parameters from the config.
func (c *GeometryConfig) Params() geom.Params {
	return geom.Params{
		DetectorName:    c.GetDetectorName(),
		PositionEpsilon: c.GetPositionEpsilon(),
		MinWireZDist:    c.GetMinWireZDist(),
	}
}
