package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the discretizer and solver parameters. The same JSON
// schema is accepted as a startup file and as the body of query overrides
// on /api/discretize.
type TuningConfig struct {
	// Discretizer params
	Delta         *float64 `json:"delta,omitempty"`        // maximal distance between neighbouring disks
	EpsFraction   *float64 `json:"eps_fraction,omitempty"` // minimal advance, as a fraction of delta
	MaxRadiusDiff *float64 `json:"max_radius_diff,omitempty"`

	// Representative disk selection
	CenterThreshold    *float64 `json:"center_threshold,omitempty"`
	NormalThresholdDeg *float64 `json:"normal_threshold_deg,omitempty"`
	RadiusThreshold    *float64 `json:"radius_threshold,omitempty"`

	// Solver params
	SolverTolerance *float64 `json:"solver_tolerance,omitempty"`
	SolverMaxPivots *int     `json:"solver_max_pivots,omitempty"` // 0 selects the size-based limit
	SolverSeed      *uint64  `json:"solver_seed,omitempty"`

	// Disk optimisation
	Optimize           *bool `json:"optimize,omitempty"`
	OptimizeIterations *int  `json:"optimize_iterations,omitempty"`
	OptimizeRounds     *int  `json:"optimize_rounds,omitempty"` // sequence relaxation rounds, 0 disables
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
// Fields omitted from the JSON file fall back to the Get* defaults, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Merge overlays every field set in other onto c.
func (c *TuningConfig) Merge(other *TuningConfig) {
	if other == nil {
		return
	}
	if other.Delta != nil {
		c.Delta = other.Delta
	}
	if other.EpsFraction != nil {
		c.EpsFraction = other.EpsFraction
	}
	if other.MaxRadiusDiff != nil {
		c.MaxRadiusDiff = other.MaxRadiusDiff
	}
	if other.CenterThreshold != nil {
		c.CenterThreshold = other.CenterThreshold
	}
	if other.NormalThresholdDeg != nil {
		c.NormalThresholdDeg = other.NormalThresholdDeg
	}
	if other.RadiusThreshold != nil {
		c.RadiusThreshold = other.RadiusThreshold
	}
	if other.SolverTolerance != nil {
		c.SolverTolerance = other.SolverTolerance
	}
	if other.SolverMaxPivots != nil {
		c.SolverMaxPivots = other.SolverMaxPivots
	}
	if other.SolverSeed != nil {
		c.SolverSeed = other.SolverSeed
	}
	if other.Optimize != nil {
		c.Optimize = other.Optimize
	}
	if other.OptimizeIterations != nil {
		c.OptimizeIterations = other.OptimizeIterations
	}
	if other.OptimizeRounds != nil {
		c.OptimizeRounds = other.OptimizeRounds
	}
}

func positive(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, *v)
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"delta", c.Delta},
		{"max_radius_diff", c.MaxRadiusDiff},
		{"center_threshold", c.CenterThreshold},
		{"normal_threshold_deg", c.NormalThresholdDeg},
		{"radius_threshold", c.RadiusThreshold},
		{"solver_tolerance", c.SolverTolerance},
	} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}

	if c.EpsFraction != nil {
		if *c.EpsFraction <= 0 || *c.EpsFraction > 1 {
			return fmt.Errorf("eps_fraction must be in (0, 1], got %f", *c.EpsFraction)
		}
	}
	if c.NormalThresholdDeg != nil && *c.NormalThresholdDeg > 180 {
		return fmt.Errorf("normal_threshold_deg must be at most 180, got %f", *c.NormalThresholdDeg)
	}
	if c.SolverMaxPivots != nil && *c.SolverMaxPivots < 0 {
		return fmt.Errorf("solver_max_pivots must be non-negative, got %d", *c.SolverMaxPivots)
	}
	if c.OptimizeIterations != nil && *c.OptimizeIterations < 1 {
		return fmt.Errorf("optimize_iterations must be at least 1, got %d", *c.OptimizeIterations)
	}
	if c.OptimizeRounds != nil && *c.OptimizeRounds < 0 {
		return fmt.Errorf("optimize_rounds must be non-negative, got %d", *c.OptimizeRounds)
	}
	return nil
}

// GetDelta returns the delta value or the default.
func (c *TuningConfig) GetDelta() float64 {
	if c.Delta == nil {
		return 0.3
	}
	return *c.Delta
}

// GetEpsFraction returns the eps_fraction value or the default.
func (c *TuningConfig) GetEpsFraction() float64 {
	if c.EpsFraction == nil {
		return 0.1
	}
	return *c.EpsFraction
}

// GetEps returns the minimal advance along the curve: delta * eps_fraction.
func (c *TuningConfig) GetEps() float64 {
	return c.GetDelta() * c.GetEpsFraction()
}

// GetMaxRadiusDiff returns the max_radius_diff value or the default.
func (c *TuningConfig) GetMaxRadiusDiff() float64 {
	if c.MaxRadiusDiff == nil {
		return 0.5
	}
	return *c.MaxRadiusDiff
}

// GetCenterThreshold returns the center_threshold value or the default.
func (c *TuningConfig) GetCenterThreshold() float64 {
	if c.CenterThreshold == nil {
		return 3.0
	}
	return *c.CenterThreshold
}

// GetNormalThresholdDeg returns the normal_threshold_deg value or the default.
func (c *TuningConfig) GetNormalThresholdDeg() float64 {
	if c.NormalThresholdDeg == nil {
		return 20
	}
	return *c.NormalThresholdDeg
}

// GetRadiusThreshold returns the radius_threshold value or the default.
func (c *TuningConfig) GetRadiusThreshold() float64 {
	if c.RadiusThreshold == nil {
		return 1.0
	}
	return *c.RadiusThreshold
}

// GetSolverTolerance returns the solver_tolerance value or the default.
func (c *TuningConfig) GetSolverTolerance() float64 {
	if c.SolverTolerance == nil {
		return 1e-9
	}
	return *c.SolverTolerance
}

// GetSolverMaxPivots returns the solver_max_pivots value or the default.
func (c *TuningConfig) GetSolverMaxPivots() int {
	if c.SolverMaxPivots == nil {
		return 0 // size-based limit
	}
	return *c.SolverMaxPivots
}

// GetSolverSeed returns the solver_seed value or the default.
func (c *TuningConfig) GetSolverSeed() uint64 {
	if c.SolverSeed == nil {
		return 1
	}
	return *c.SolverSeed
}

// GetOptimize returns the optimize value or the default.
func (c *TuningConfig) GetOptimize() bool {
	if c.Optimize == nil {
		return false
	}
	return *c.Optimize
}

// GetOptimizeIterations returns the optimize_iterations value or the default.
func (c *TuningConfig) GetOptimizeIterations() int {
	if c.OptimizeIterations == nil {
		return 200
	}
	return *c.OptimizeIterations
}

// GetOptimizeRounds returns the optimize_rounds value or the default.
func (c *TuningConfig) GetOptimizeRounds() int {
	if c.OptimizeRounds == nil {
		return 0
	}
	return *c.OptimizeRounds
}
