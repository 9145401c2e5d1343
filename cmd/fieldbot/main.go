// Package main runs a fieldbot robot from a config file: it builds every configured resource,
// drives the base through a scripted sequence of movements and reports what the locators see.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/fieldbot/components/base"
	componentregister "go.viam.com/fieldbot/components/register"
	"go.viam.com/fieldbot/config"
	"go.viam.com/fieldbot/control"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
	robotimpl "go.viam.com/fieldbot/robot/impl"
	"go.viam.com/fieldbot/services/locator"
	serviceregister "go.viam.com/fieldbot/services/register"
	"go.viam.com/fieldbot/spatialmath"
)

const (
	// Flags.
	flagConfig    = "config"
	flagScript    = "script"
	flagBase      = "base"
	flagFrequency = "frequency"
	flagCycles    = "cycles"
	flagDebug     = "debug"
	flagLogFile   = "log-file"

	defaultFrequency = 50.0
)

type options struct {
	ConfigPath string
	ScriptPath string
	BaseName   string
	Frequency  float64
	Cycles     int
	Debug      bool
	LogFile    string
}

func main() {
	app := &cli.App{
		Name:  "fieldbot",
		Usage: "drive a mecanum robot and locate it with april tags",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagConfig,
				Aliases:  []string{"c"},
				Required: true,
				Usage:    "robot config `FILE`",
			},
			&cli.StringFlag{
				Name:  flagScript,
				Usage: "JSON `FILE` holding a list of movements to drive, one per cycle",
			},
			&cli.StringFlag{
				Name:  flagBase,
				Usage: "name of the base to drive, required when more than one is configured",
			},
			&cli.Float64Flag{
				Name:  flagFrequency,
				Value: defaultFrequency,
				Usage: "cycles per second",
			},
			&cli.IntFlag{
				Name:  flagCycles,
				Usage: "number of cycles to run; defaults to the script length, or forever without a script",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write JSON logs to this rotating `FILE`",
			},
		},
		Action: func(c *cli.Context) error {
			opts := options{
				ConfigPath: c.String(flagConfig),
				ScriptPath: c.String(flagScript),
				BaseName:   c.String(flagBase),
				Frequency:  c.Float64(flagFrequency),
				Cycles:     c.Int(flagCycles),
				Debug:      c.Bool(flagDebug),
				LogFile:    c.String(flagLogFile),
			}
			logger := newLogger(opts)
			defer func() {
				//nolint:errcheck
				logger.Sync()
			}()
			return run(c.Context, opts, logger)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		logging.NewLogger("fieldbot").Error(err)
		stop()
		//nolint:gocritic
		os.Exit(1)
	}
}

func newLogger(opts options) logging.Logger {
	level := logging.INFO
	if opts.Debug {
		level = logging.DEBUG
	}
	if opts.LogFile != "" {
		return logging.NewFileLogger("fieldbot", level, logging.FileConfig{Path: opts.LogFile})
	}
	if opts.Debug {
		return logging.NewDebugLogger("fieldbot")
	}
	return logging.NewLogger("fieldbot")
}

func run(ctx context.Context, opts options, logger logging.Logger) (err error) {
	reg := resource.NewRegistry()
	componentregister.RegisterAll(reg)
	serviceregister.RegisterAll(reg)

	cfg, err := config.Read(ctx, opts.ConfigPath, reg, logger)
	if err != nil {
		return err
	}
	if cfg.Debug {
		logger.SetLevel(logging.DEBUG)
	}

	script, err := loadScript(opts.ScriptPath)
	if err != nil {
		return err
	}
	cycles := opts.Cycles
	if cycles == 0 {
		cycles = len(script)
	}

	r, err := robotimpl.New(ctx, cfg, reg, logger.Sublogger("robot"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, r.Close(context.Background()))
	}()

	drive, err := pickBase(r, opts.BaseName)
	if err != nil {
		return err
	}
	locators := lo.FilterMap(locator.NamesFromRobot(r), func(name string, _ int) (locator.Locator, bool) {
		loc, err := locator.FromRobot(r, name)
		return loc, err == nil
	})
	loggables := lo.FilterMap(r.ResourceNames(), func(name resource.Name, _ int) (locator.Loggable, bool) {
		res, err := r.ResourceByName(name)
		if err != nil {
			return nil, false
		}
		l, ok := res.(locator.Loggable)
		return l, ok
	})

	cycleLogger := logger.Sublogger("cycle")
	loop, err := control.NewLoop(logger.Sublogger("loop"), control.Config{Frequency: opts.Frequency},
		func(ctx context.Context, cycle int) error {
			if _, err := drive.SetVelocity(ctx, stepAt(script, cycle), nil); err != nil {
				return err
			}
			for _, loc := range locators {
				lm, err := loc.Location(ctx)
				if err != nil {
					if _, ok := locator.IsLocatorError(err); ok {
						cycleLogger.Debugw("no location", "locator", loc.Name().Name, "error", err)
						continue
					}
					return err
				}
				cycleLogger.Infow("location", "locator", loc.Name().Name, "kind", loc.Kind(), "movement", lm.Movement)
			}
			for _, l := range loggables {
				l.Log(ctx)
			}
			return nil
		})
	if err != nil {
		return err
	}

	runErr := loop.Run(ctx, cycles)
	if errors.Is(runErr, context.Canceled) {
		logger.Info("interrupted")
		runErr = nil
	}
	return multierr.Combine(runErr, drive.Stop(context.Background(), nil))
}

func loadScript(path string) ([]spatialmath.Movement, error) {
	if path == "" {
		return nil, nil
	}
	return readScript(path)
}

func pickBase(r robot.Robot, name string) (base.Base, error) {
	if name != "" {
		return base.FromRobot(r, name)
	}
	names := base.NamesFromRobot(r)
	switch len(names) {
	case 0:
		return nil, errors.New("no base configured")
	case 1:
		return base.FromRobot(r, names[0])
	default:
		return nil, errors.Errorf("more than one base configured, pick one of %v with --%s", names, flagBase)
	}
}
