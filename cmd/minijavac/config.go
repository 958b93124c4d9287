package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
	"github.com/xyproto/env/v2"
	cli "gopkg.in/urfave/cli.v1"

	"minijavac/internal/mips"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "Log level (debug, info, warn, error, crit)",
	}
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "Assembly output path (default: input name with .s)",
	}
	spimFlag = cli.StringFlag{
		Name:  "spim",
		Usage: "Run under this spim binary instead of the built-in simulator",
	}
	maxStepsFlag = cli.IntFlag{
		Name:  "maxsteps",
		Usage: "Simulator instruction limit (0 = unlimited)",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("unknown config key %q in %s", field, rt.Name())
	},
}

type buildConfig struct {
	Output   string
	LogLevel string
}

type runConfig struct {
	MaxSteps   int
	StackBytes int
	HeapBytes  int
	Poison     bool
	Spim       string
}

type minijavacConfig struct {
	Build buildConfig
	Run   runConfig
}

func defaultConfig() minijavacConfig {
	mc := mips.DefaultConfig()
	return minijavacConfig{
		Build: buildConfig{LogLevel: "warn"},
		Run: runConfig{
			MaxSteps:   mc.MaxSteps,
			StackBytes: mc.StackBytes,
			HeapBytes:  mc.HeapBytes,
		},
	}
}

func (c runConfig) machine() mips.Config {
	return mips.Config{
		MaxSteps:   c.MaxSteps,
		StackBytes: c.StackBytes,
		HeapBytes:  c.HeapBytes,
		Poison:     c.Poison,
	}
}

func loadConfig(file string, cfg *minijavacConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// applyEnv overrides cfg with any MJC_* variables that are set.
func applyEnv(cfg *minijavacConfig) {
	// env caches the environment on first use; reread it for every run.
	env.Load()
	cfg.Build.Output = env.Str("MJC_OUTPUT", cfg.Build.Output)
	cfg.Build.LogLevel = env.Str("MJC_LOG_LEVEL", cfg.Build.LogLevel)
	cfg.Run.MaxSteps = env.Int("MJC_MAX_STEPS", cfg.Run.MaxSteps)
	cfg.Run.StackBytes = env.Int("MJC_STACK_BYTES", cfg.Run.StackBytes)
	cfg.Run.HeapBytes = env.Int("MJC_HEAP_BYTES", cfg.Run.HeapBytes)
	if env.Has("MJC_POISON") {
		cfg.Run.Poison = env.Bool("MJC_POISON")
	}
	cfg.Run.Spim = env.Str("MJC_SPIM", cfg.Run.Spim)
}

// makeConfig layers defaults, the config file, the environment and the
// global flags, in that order.
func makeConfig(ctx *cli.Context) (minijavacConfig, error) {
	cfg := defaultConfig()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	if ctx.GlobalIsSet(logLevelFlag.Name) {
		cfg.Build.LogLevel = ctx.GlobalString(logLevelFlag.Name)
	}
	return cfg, nil
}

func (s *cliState) dumpConfig(ctx *cli.Context) error {
	out, err := tomlSettings.Marshal(&s.cfg)
	if err != nil {
		return err
	}
	_, err = s.stdout.Write(out)
	return err
}
