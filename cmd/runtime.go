// Package cmd holds the entry points behind each CLI subcommand. Each
// RunX function builds the runtime it needs, performs one operation, and
// returns an error for main to report.
package cmd

import (
	"context"
	"fmt"
	"os"

	"grimm.is/vpcctl/internal/audit"
	"grimm.is/vpcctl/internal/config"
	"grimm.is/vpcctl/internal/driver"
	"grimm.is/vpcctl/internal/logging"
	"grimm.is/vpcctl/internal/metrics"
	"grimm.is/vpcctl/internal/store"
	"grimm.is/vpcctl/internal/vpc"
)

// GlobalFlags are the options every subcommand accepts.
type GlobalFlags struct {
	ConfigFile string
	StateDir   string // overrides the config's state_dir
	JSON       bool   // machine-readable output
}

// runtime bundles the wired-up components for one command invocation.
type runtime struct {
	cfg     *config.Config
	log     *logging.Logger
	manager *vpc.Manager
	auditor *audit.Store
	metrics *metrics.Collector
	json    bool
}

// newRuntime loads the config and wires the store, driver, audit log,
// metrics and manager together.
func newRuntime(flags GlobalFlags) (*runtime, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if flags.StateDir != "" {
		cfg.StateDir = flags.StateDir
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(log)

	st, err := store.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state dir: %w", err)
	}

	var auditor *audit.Store
	if !cfg.Audit.Disabled {
		auditor, err = audit.NewStore(cfg.Audit.Path, cfg.Audit.RetentionDays)
		if err != nil {
			// Auditing must not block operations; run without it.
			log.Warn("audit store unavailable, continuing without audit log", "error", err)
			auditor = nil
		}
	}

	collector := metrics.New()
	drv := driver.Instrument(driver.New(log), collector)

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	manager := vpc.New(vpc.Options{
		Store:   st,
		Driver:  drv,
		Logger:  log.WithComponent("vpc"),
		Auditor: auditor,
		Metrics: collector,
		Timeout: timeout,
	})

	return &runtime{
		cfg:     cfg,
		log:     log,
		manager: manager,
		auditor: auditor,
		metrics: collector,
		json:    flags.JSON,
	}, nil
}

func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.JSON = cfg.Log.JSON
	switch cfg.Log.Level {
	case "debug":
		logCfg.Level = logging.LevelDebug
	case "", "info":
		logCfg.Level = logging.LevelInfo
	case "warn":
		logCfg.Level = logging.LevelWarn
	case "error":
		logCfg.Level = logging.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	if cfg.Log.File != "" {
		return logging.NewFileLogger(logCfg, cfg.Log.File)
	}
	return logging.New(logCfg), nil
}

// close flushes metrics and prunes + closes the audit store.
func (r *runtime) close() {
	if r.auditor != nil {
		if _, err := r.auditor.Prune(); err != nil {
			r.log.Debug("audit prune failed", "error", err)
		}
		r.auditor.Close()
	}
	if r.cfg.MetricsTextfile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.MetricsTextfile); err != nil {
			r.log.Warn("metrics textfile write failed",
				"path", r.cfg.MetricsTextfile, "error", err)
		}
	}
}

// requireRoot rejects mutating commands run without host privileges.
// The driver would fail anyway, but this gives a clear message first.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("this command must be run as root")
	}
	return nil
}

// withRuntime wraps the build/run/close cycle shared by every command.
func withRuntime(flags GlobalFlags, root bool, fn func(ctx context.Context, r *runtime) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if root {
			if err := requireRoot(); err != nil {
				return err
			}
		}
		r, err := newRuntime(flags)
		if err != nil {
			return err
		}
		defer r.close()
		return fn(ctx, r)
	}
}
