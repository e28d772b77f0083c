// Package config loads the simulation's configuration record (spec §6)
// from a `key = value` text file, grounded on the teacher's
// inmaputil/cmd.go setConfig: a github.com/lnashier/viper instance with
// defaults pre-set, pointed at the config file path and read with the
// "properties" codec, which happens to accept the same `key = value`
// line syntax as the original C solver's hand-rolled loader
// (original_source/v0-base/src/lbm_config.c) without a custom parser.
package config

import (
	"fmt"

	"github.com/lnashier/viper"
)

// Config is the immutable configuration record, passed explicitly to
// sim.InitialState and sim.StepController instead of living in a
// process-wide mutable global (spec §9 Design Notes). mesh.New and
// domain.Decompose take only the plain sizes they need, not a Config.
type Config struct {
	Iterations uint32
	Width      uint32
	Height     uint32

	ObstacleX, ObstacleY, ObstacleR float64

	InflowMaxVelocity float64
	Reynolds          float64

	// OutputFilename is empty when output is disabled.
	OutputFilename string
	WriteInterval  uint32

	// Viscosity and Omega are derived from the fields above at Load time.
	Viscosity float64
	Omega     float64
}

// defaults mirrors setup_default_values() in the original C source.
func defaults() *Config {
	return &Config{
		Iterations:        10000,
		Width:             800,
		Height:            100,
		InflowMaxVelocity: 0.1,
		Reynolds:          100,
		WriteInterval:     50,
	}
}

// OutputEnabled reports whether a trace file should be written.
func (c *Config) OutputEnabled() bool {
	return c.OutputFilename != ""
}

// deriveDefaultObstacle fills in the obstacle geometry the original
// solver derives from width/height when the user leaves the
// corresponding key out of the config file entirely. Unlike the
// original C loader, an explicit `obstacle_r = 0` is honored as a real
// zero radius (no obstacle) rather than being indistinguishable from
// "unset" — see DESIGN.md.
func (c *Config) deriveDefaultObstacle(xSet, ySet, rSet bool) {
	if !xSet {
		c.ObstacleX = float64(c.Width)/5.0 + 1.0
	}
	if !ySet {
		c.ObstacleY = float64(c.Height)/2.0 + 3.0
	}
	if !rSet {
		c.ObstacleR = float64(c.Height)/10.0 + 1.0
	}
}

func (c *Config) deriveParameters() {
	c.Viscosity = c.InflowMaxVelocity * 2.0 * c.ObstacleR / c.Reynolds
	c.Omega = 1.0 / (3.0*c.Viscosity + 0.5)
}

// Load reads the configuration file at path, applying the original's
// defaults for anything left unset, and returns the fully derived
// record. A missing or unparseable file is a fatal configuration error
// per spec §7.
func Load(path string) (*Config, error) {
	c := defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("properties")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if v.IsSet("iterations") {
		c.Iterations = uint32(v.GetInt("iterations"))
	}
	if v.IsSet("width") {
		c.Width = uint32(v.GetInt("width"))
	}
	if v.IsSet("height") {
		c.Height = uint32(v.GetInt("height"))
	}
	xSet, ySet, rSet := v.IsSet("obstacle_x"), v.IsSet("obstacle_y"), v.IsSet("obstacle_r")
	if xSet {
		c.ObstacleX = v.GetFloat64("obstacle_x")
	}
	if ySet {
		c.ObstacleY = v.GetFloat64("obstacle_y")
	}
	if rSet {
		c.ObstacleR = v.GetFloat64("obstacle_r")
	}
	if v.IsSet("inflow_max_velocity") {
		c.InflowMaxVelocity = v.GetFloat64("inflow_max_velocity")
	}
	if v.IsSet("reynolds") {
		c.Reynolds = v.GetFloat64("reynolds")
	}
	if v.IsSet("write_interval") {
		c.WriteInterval = uint32(v.GetInt("write_interval"))
	}
	if v.IsSet("output_filename") {
		c.OutputFilename = v.GetString("output_filename")
	}

	c.deriveDefaultObstacle(xSet, ySet, rSet)
	c.deriveParameters()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the domain-independent invariants of the record: a
// nonzero width and height, a positive Reynolds number, and a positive
// derived relaxation parameter omega. Decomposition feasibility (W % Px == 0, H % Py == 0) is checked
// separately once the process count is known, by domain.Decompose.
func (c *Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("config: width and height must be positive")
	}
	if c.Reynolds <= 0 {
		return fmt.Errorf("config: reynolds number must be positive")
	}
	if c.Omega <= 0 {
		return fmt.Errorf("config: derived relaxation parameter omega=%.6f must be positive", c.Omega)
	}
	return nil
}
