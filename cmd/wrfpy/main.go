// Command wrfpy manages WRF forecast suites: it creates suite
// skeletons, renders their cylc scheduling documents, and runs the WPS
// boundary preprocessing for one or more forecast cycles.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parro-it/fileargs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Sytse47/wrfpy/conf"
	"github.com/Sytse47/wrfpy/suite"
	"github.com/Sytse47/wrfpy/wps"
)

// cliDateLayout is the YYYYMMDDHH format of date arguments.
const cliDateLayout = "2006010215"

func main() {
	log := newLogger()
	defer log.Sync()

	root := newRootCmd(log)
	if err := root.Execute(); err != nil {
		log.Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core).Sugar()
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cylc-suites"
	}
	return filepath.Join(home, "cylc-suites")
}

func newRootCmd(log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "wrfpy",
		Short:         "WRF forecast suite management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInitCmd(log))
	root.AddCommand(newCreateCmd(log))
	root.AddCommand(newWPSCmd(log))
	return root
}

func newInitCmd(log *zap.SugaredLogger) *cobra.Command {
	var suiteName, baseDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a suite skeleton",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := suite.Init(suiteName, baseDir); err != nil {
				return err
			}
			log.Infow("suite initialized", "suite", suiteName, "basedir", baseDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&suiteName, "suitename", "", "name of the suite")
	cmd.Flags().StringVar(&baseDir, "basedir", defaultBaseDir(), "basedir in which suites are installed")
	cmd.MarkFlagRequired("suitename")
	return cmd
}

func newCreateCmd(log *zap.SugaredLogger) *cobra.Command {
	var suiteName, baseDir string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Render a suite's cylc scheduling document from its config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return suite.WriteSuiteRC(suiteName, baseDir, log)
		},
	}
	cmd.Flags().StringVar(&suiteName, "suitename", "", "name of the suite")
	cmd.Flags().StringVar(&baseDir, "basedir", defaultBaseDir(), "basedir in which suites are installed")
	cmd.MarkFlagRequired("suitename")
	return cmd
}

func newWPSCmd(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath, boundaryDir string
	cmd := &cobra.Command{
		Use:   "wps [startdate enddate]",
		Short: "Run boundary preprocessing for one or more cycles",
		Long: "Run boundary preprocessing for the given window (dates in YYYYMMDDHH format).\n" +
			"Without date arguments, the cycles to run are read from inputs/arguments.txt.",
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			periods, err := resolvePeriods(args, &cfgPath)
			if err != nil {
				return err
			}

			cfg, err := conf.Load(cfgPath)
			if err != nil {
				return err
			}

			pipeline := wps.NewPipeline(cfg, boundaryDir, log)
			for _, period := range periods {
				if err := pipeline.Run(period.Start, period.Start.Add(period.Duration)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config.json", "suite configuration file")
	cmd.Flags().StringVar(&boundaryDir, "boundary-dir", "", "override filesystem.boundary_dir as the boundary source")
	return cmd
}

// resolvePeriods turns the date arguments into run periods, or reads
// them from inputs/arguments.txt when no dates were given. A config
// path named by the arguments file wins over the flag default.
func resolvePeriods(args []string, cfgPath *string) ([]*fileargs.Period, error) {
	if len(args) == 1 {
		return nil, errors.New("provide both startdate and enddate, or neither")
	}

	if len(args) == 2 {
		start, err := time.Parse(cliDateLayout, args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid startdate `%s`: %w", args[0], err)
		}
		end, err := time.Parse(cliDateLayout, args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid enddate `%s`: %w", args[1], err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("enddate %s is not after startdate %s", args[1], args[0])
		}
		return []*fileargs.Period{{Start: start, Duration: end.Sub(start)}}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dates, err := fileargs.ReadFile(os.DirFS(cwd), "inputs/arguments.txt")
	if err != nil {
		return nil, fmt.Errorf("read inputs/arguments.txt: %w", err)
	}
	if dates.CfgPath != "" {
		*cfgPath = dates.CfgPath
	}
	return dates.Periods, nil
}
