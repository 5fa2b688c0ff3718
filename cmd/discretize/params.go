package main

import (
	"encoding/json"

	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/discretize"
)

// runParams is stored with a run in the same shape minball-server uses.
type runParams struct {
	*config.TuningConfig
	Smooth         bool `json:"smooth"`
	Representative bool `json:"representative"`
}

// jsonParams resolves unset tuning fields to their defaults so a stored
// run can be repeated without the config file it came from.
func jsonParams(cfg *config.TuningConfig, post discretize.PostOptions) (json.RawMessage, error) {
	delta := cfg.GetDelta()
	eps := cfg.GetEpsFraction()
	maxDiff := cfg.GetMaxRadiusDiff()
	tol := cfg.GetSolverTolerance()
	seed := cfg.GetSolverSeed()
	optimize := cfg.GetOptimize()
	rounds := cfg.GetOptimizeRounds()
	resolved := &config.TuningConfig{
		Delta:           &delta,
		EpsFraction:     &eps,
		MaxRadiusDiff:   &maxDiff,
		SolverTolerance: &tol,
		SolverSeed:      &seed,
		Optimize:        &optimize,
		OptimizeRounds:  &rounds,
	}
	return json.Marshal(runParams{resolved, post.Smooth, post.Representative})
}
