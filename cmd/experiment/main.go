// Command experiment runs the discriminant-analysis and regression studies
// and writes a YAML report plus PNG figures.
//
//	experiment -config study.yaml -out report.yaml -log-level debug
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/YuminosukeSato/statlearn/internal/experiment"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

type options struct {
	configPath string
	outPath    string
	logLevel   string
	noPlots    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (defaults are used when empty)")
	flag.StringVar(&opts.outPath, "out", "", "report file (stdout when empty)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&opts.noPlots, "no-plots", false, "skip PNG output")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("experiment failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func run(opts options) error {
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	// slog はドライバ自身のエラー出力、zerolog は推定器とワーニング用
	log.SetupLoggerTo(os.Stderr, level)
	logger := log.NewZerologLogger(os.Stderr, log.Level(level))
	log.SetLogger(logger)
	log.InstallWarningHandler(logger)

	cfg := experiment.DefaultConfig()
	if opts.configPath != "" {
		if cfg, err = experiment.LoadConfig(opts.configPath); err != nil {
			return err
		}
		logger.Info("config loaded", log.ConfigPathKey, opts.configPath)
	}
	if opts.noPlots {
		cfg.Plots.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := experiment.NewRunner(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}
	return writeReport(rep, opts.outPath)
}

func writeReport(rep *experiment.Report, path string) error {
	if path == "" {
		return rep.WriteYAML(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	return writeAndClose(rep, f, path)
}

// writeAndClose reports a failed Close, which may mean a truncated file.
func writeAndClose(rep *experiment.Report, w io.WriteCloser, path string) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return rep.WriteYAML(w)
}
