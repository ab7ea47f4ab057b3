package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/polytile/internal/fsutil"
	"github.com/banshee-data/polytile/internal/tiling"
)

// DefaultConfigPath is the path to the canonical tiling defaults file.
const DefaultConfigPath = "config/tiling.defaults.json"

// DefaultNTay is the Taylor order recorded when none is given.
const DefaultNTay = 20

// TilingConfig holds the run parameters. Fields omitted from the JSON keep
// their defaults through the Get* methods, so partial configs are safe.
type TilingConfig struct {
	// Domain
	Rtot             *int    `json:"rtot,omitempty"`
	Nrge             *int    `json:"nrge,omitempty"`
	OriginRadius     *int    `json:"origin_radius,omitempty"`
	ReferenceOffset  *int    `json:"reference_offset,omitempty"`
	RadiusConvention *string `json:"radius_convention,omitempty"` // "strict" or "inclusive"

	// Output
	NTay      *int    `json:"ntay,omitempty"`
	OutputDir *string `json:"output_dir,omitempty"`
	Colors    *int    `json:"colors,omitempty"`
}

func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

// EmptyTilingConfig returns a TilingConfig with all fields unset.
func EmptyTilingConfig() *TilingConfig {
	return &TilingConfig{}
}

// DefaultTilingConfig returns a TilingConfig with every field set to its
// default.
func DefaultTilingConfig() *TilingConfig {
	p := tiling.DefaultParams()
	return &TilingConfig{
		Rtot:             ptrInt(p.Rtot),
		Nrge:             ptrInt(p.Nrge),
		OriginRadius:     ptrInt(p.OriginRadius),
		ReferenceOffset:  ptrInt(p.ReferenceOffset),
		RadiusConvention: ptrString(p.Convention.String()),
		NTay:             ptrInt(DefaultNTay),
		OutputDir:        ptrString("."),
		Colors:           ptrInt(4),
	}
}

// LoadTilingConfig loads a TilingConfig from a JSON file on fsys.
func LoadTilingConfig(fsys fsutil.FileSystem, path string) (*TilingConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTilingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded; intended
// for test setup.
func MustLoadDefaultConfig() *TilingConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	fsys := fsutil.OSFileSystem{}
	for _, path := range candidates {
		if cfg, err := LoadTilingConfig(fsys, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set.
func (c *TilingConfig) Validate() error {
	if c.RadiusConvention != nil {
		if _, err := tiling.ParseRadiusConvention(*c.RadiusConvention); err != nil {
			return err
		}
	}
	if c.NTay != nil && *c.NTay < 1 {
		return fmt.Errorf("ntay must be positive, got %d", *c.NTay)
	}
	if c.Colors != nil && (*c.Colors < 1 || *c.Colors > 8) {
		return fmt.Errorf("colors must be between 1 and 8, got %d", *c.Colors)
	}
	if c.OutputDir != nil && *c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	return nil
}

// Merge copies every field set in o over c.
func (c *TilingConfig) Merge(o *TilingConfig) {
	if o == nil {
		return
	}
	if o.Rtot != nil {
		c.Rtot = o.Rtot
	}
	if o.Nrge != nil {
		c.Nrge = o.Nrge
	}
	if o.OriginRadius != nil {
		c.OriginRadius = o.OriginRadius
	}
	if o.ReferenceOffset != nil {
		c.ReferenceOffset = o.ReferenceOffset
	}
	if o.RadiusConvention != nil {
		c.RadiusConvention = o.RadiusConvention
	}
	if o.NTay != nil {
		c.NTay = o.NTay
	}
	if o.OutputDir != nil {
		c.OutputDir = o.OutputDir
	}
	if o.Colors != nil {
		c.Colors = o.Colors
	}
}

// Params converts the configuration into validated engine parameters.
func (c *TilingConfig) Params() (tiling.Params, error) {
	conv, err := tiling.ParseRadiusConvention(c.GetRadiusConvention())
	if err != nil {
		return tiling.Params{}, err
	}
	p := tiling.Params{
		Rtot:            c.GetRtot(),
		Nrge:            c.GetNrge(),
		OriginRadius:    c.GetOriginRadius(),
		ReferenceOffset: c.GetReferenceOffset(),
		Convention:      conv,
	}
	if err := p.Validate(); err != nil {
		return tiling.Params{}, err
	}
	return p, nil
}

// GetRtot returns the rtot value or the default.
func (c *TilingConfig) GetRtot() int {
	if c.Rtot == nil {
		return tiling.DefaultParams().Rtot
	}
	return *c.Rtot
}

// GetNrge returns the nrge value or the default.
func (c *TilingConfig) GetNrge() int {
	if c.Nrge == nil {
		return tiling.DefaultParams().Nrge
	}
	return *c.Nrge
}

// GetOriginRadius returns the origin_radius value or the default.
func (c *TilingConfig) GetOriginRadius() int {
	if c.OriginRadius == nil {
		return tiling.DefaultParams().OriginRadius
	}
	return *c.OriginRadius
}

// GetReferenceOffset returns the reference_offset value or the default.
func (c *TilingConfig) GetReferenceOffset() int {
	if c.ReferenceOffset == nil {
		return tiling.DefaultParams().ReferenceOffset
	}
	return *c.ReferenceOffset
}

// GetRadiusConvention returns the radius_convention value or "strict".
func (c *TilingConfig) GetRadiusConvention() string {
	if c.RadiusConvention == nil {
		return tiling.Strict.String()
	}
	return *c.RadiusConvention
}

// GetNTay returns the ntay value or the default.
func (c *TilingConfig) GetNTay() int {
	if c.NTay == nil {
		return DefaultNTay
	}
	return *c.NTay
}

// GetOutputDir returns the output_dir value or the current directory.
func (c *TilingConfig) GetOutputDir() string {
	if c.OutputDir == nil {
		return "."
	}
	return *c.OutputDir
}

// GetColors returns the number of map colours or 4.
func (c *TilingConfig) GetColors() int {
	if c.Colors == nil {
		return 4
	}
	return *c.Colors
}
