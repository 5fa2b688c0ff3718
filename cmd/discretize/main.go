// Command discretize turns a CAVER tunnel (PDB) into a sequence of disks in
// DSD format.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/banshee-data/minball/internal/api"
	"github.com/banshee-data/minball/internal/config"
	"github.com/banshee-data/minball/internal/db"
	"github.com/banshee-data/minball/internal/discretize"
	"github.com/banshee-data/minball/internal/geometry"
	"github.com/banshee-data/minball/internal/monitoring"
	"github.com/banshee-data/minball/internal/report"
	"github.com/banshee-data/minball/internal/tunnel"
	"github.com/banshee-data/minball/internal/version"
)

type options struct {
	input          string
	output         string
	configPath     string
	delta          float64
	optimizeRounds int
	smooth         bool
	representative bool
	plotPath       string
	dbPath         string
	remote         string
	quiet          bool
	showVersion    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("discretize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.input, "f", "", "Tunnel file in PDB format (required)")
	fs.StringVar(&o.output, "o", "", "Write disks in DSD format to this file (default stdout)")
	fs.StringVar(&o.configPath, "config", "", "Tuning config JSON (default built-in values)")
	fs.Float64Var(&o.delta, "delta", 0, "Maximal distance between disks (overrides config)")
	fs.IntVar(&o.optimizeRounds, "optimize-rounds", 0, "Relax the disk sequence for this many rounds (overrides config)")
	fs.BoolVar(&o.smooth, "smooth", false, "Limit radius change between neighbouring disks")
	fs.BoolVar(&o.representative, "representative", false, "Keep only representative disks")
	fs.StringVar(&o.plotPath, "plot", "", "Save a radius profile plot (.png, .svg or .pdf)")
	fs.StringVar(&o.dbPath, "db", "", "Also store the run in this sqlite database")
	fs.StringVar(&o.remote, "remote", "", "Discretize on a minball-server at this URL instead of locally")
	fs.BoolVar(&o.quiet, "q", false, "Suppress progress logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if !o.showVersion && o.input == "" {
		fs.Usage()
		return nil, fmt.Errorf("-f is required")
	}
	if o.delta < 0 {
		return nil, fmt.Errorf("-delta must be positive, got %v", o.delta)
	}
	if o.optimizeRounds < 0 {
		return nil, fmt.Errorf("-optimize-rounds must be non-negative, got %d", o.optimizeRounds)
	}
	return o, nil
}

func loadTuning(o *options) (*config.TuningConfig, error) {
	cfg := config.EmptyTuningConfig()
	if o.configPath != "" {
		loaded, err := config.LoadTuningConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.delta > 0 {
		cfg.Delta = &o.delta
	}
	if o.optimizeRounds > 0 {
		cfg.OptimizeRounds = &o.optimizeRounds
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func discretizeRemote(o *options, cfg *config.TuningConfig) ([]geometry.Disk, error) {
	f, err := os.Open(filepath.Clean(o.input))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	params := url.Values{}
	params.Set("delta", strconv.FormatFloat(cfg.GetDelta(), 'g', -1, 64))
	params.Set("eps_fraction", strconv.FormatFloat(cfg.GetEpsFraction(), 'g', -1, 64))
	params.Set("max_radius_diff", strconv.FormatFloat(cfg.GetMaxRadiusDiff(), 'g', -1, 64))
	params.Set("smooth", strconv.FormatBool(o.smooth))
	params.Set("representative", strconv.FormatBool(o.representative))
	params.Set("optimize", strconv.FormatBool(cfg.GetOptimize()))
	params.Set("optimize_rounds", strconv.Itoa(cfg.GetOptimizeRounds()))

	res, err := api.NewClient(o.remote, nil).Discretize(f, filepath.Base(o.input), params)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[discretize] stored as run %s on %s", res.Run.RunID, o.remote)
	return api.DisksFromWire(res.Disks), nil
}

func storeRun(path, source string, cfg *config.TuningConfig, post discretize.PostOptions, spheres int, disks []geometry.Disk, elapsed time.Duration) error {
	database, err := db.NewDB(path)
	if err != nil {
		return err
	}
	defer database.Close()

	params, err := jsonParams(cfg, post)
	if err != nil {
		return err
	}
	store := db.NewRunStore(database.DB)
	run := &db.Run{
		Source:      source,
		ParamsJSON:  params,
		SphereCount: spheres,
		DurationMs:  float64(elapsed.Microseconds()) / 1000,
	}
	if err := store.CreateRun(run); err != nil {
		return err
	}
	if err := store.InsertDisks(run.RunID, disks); err != nil {
		return err
	}
	monitoring.Logf("[discretize] stored run %s in %s", run.RunID, path)
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if o.quiet {
		monitoring.SetLogger(nil)
	}
	cfg, err := loadTuning(o)
	if err != nil {
		return err
	}

	var disks []geometry.Disk
	if o.remote != "" {
		if disks, err = discretizeRemote(o, cfg); err != nil {
			return err
		}
	} else {
		tnl, err := tunnel.LoadPDBFile(o.input)
		if err != nil {
			return err
		}
		post := discretize.PostOptions{Smooth: o.smooth, Representative: o.representative}
		start := time.Now()
		disks, err = discretize.Process(ctx, tnl, cfg, post)
		if err != nil {
			return err
		}
		if o.dbPath != "" {
			if err := storeRun(o.dbPath, filepath.Base(o.input), cfg, post, len(tnl.Spheres), disks, time.Since(start)); err != nil {
				return fmt.Errorf("store run: %w", err)
			}
		}
	}

	out := stdout
	if o.output != "" {
		f, err := os.Create(filepath.Clean(o.output))
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := discretize.WriteDSD(out, disks); err != nil {
		return fmt.Errorf("write disks: %w", err)
	}

	if o.plotPath != "" {
		if err := report.RadiusProfile(o.plotPath, filepath.Base(o.input), report.Series{Name: "radius", Disks: disks}); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("discretize: %v", err)
	}
}
