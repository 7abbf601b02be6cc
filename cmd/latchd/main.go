// latchd is the door-access controller daemon: it authenticates proximity
// credentials against the persistent store and drives the door actuator
// under the safety interlocks.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"

	"github.com/latchd/latch/internal/daemon"
	"github.com/latchd/latch/internal/version"
	"github.com/latchd/latch/pkg/hal"
)

var (
	configPath  = flag.String("config", "", "YAML config file (optional)")
	storePath   = flag.String("store", "", "credential image path (overrides config)")
	auditPath   = flag.String("audit-log", "", "SQLite audit log path (overrides config)")
	simMode     = flag.Bool("sim", false, "run against the hardware simulator")
	debug       = flag.Bool("debug", false, "enable debug logging")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("latchd", version.String())
		return
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("latchd starting", "version", version.String())

	cfg := daemon.DefaultConfig()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			logger.Error("configuration error", "error", err)
			os.Exit(daemon.ExitInitFailure)
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(daemon.ExitInitFailure)
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *auditPath != "" {
		cfg.AuditLogPath = *auditPath
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(daemon.ExitInitFailure)
	}

	hw, err := buildHardware(*simMode, logger)
	if err != nil {
		// Hardware init failure is fatal before the loop starts.
		logger.Error("hardware init failed", "error", err)
		os.Exit(daemon.ExitInitFailure)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	code, err := daemon.New(cfg, hw, clock.WallClock, logger).Run(ctx)
	if err != nil {
		logger.Error("latchd stopped", "error", err)
	} else {
		logger.Info("latchd stopped")
	}
	os.Exit(code)
}

// buildHardware selects the driver set. Real GPIO drivers register here;
// without hardware the simulator is the only choice.
func buildHardware(sim bool, logger *slog.Logger) (daemon.Hardware, error) {
	if !sim {
		return daemon.Hardware{}, fmt.Errorf("no hardware drivers built in, run with --sim")
	}
	logger.Info("running against the hardware simulator")
	s := hal.NewSim()
	return daemon.Hardware{
		Reader:   s,
		Distance: s,
		Gas:      s,
		Motor:    s,
		Buttons:  s,
	}, nil
}
