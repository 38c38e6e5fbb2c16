// Command qccprov is the manufacturing kiosk for QCC514x audio devices. It
// loads the attached device's configuration, shows it, and lets the
// operator flash firmware or change the device name, Bluetooth address or
// serial number.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/moffa90/go-qccprov/config"
	"github.com/moffa90/go-qccprov/console"
	"github.com/moffa90/go-qccprov/provision"
	"github.com/moffa90/go-qccprov/toolrun"
)

// interruptGrace is how long an interrupted run may take to unwind before
// the process exits anyway. Prompt reads do not observe the context.
const interruptGrace = 2 * time.Second

const exitInterrupted = 130

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
		time.Sleep(interruptGrace)
		os.Exit(exitInterrupted)
	}()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, &toolrun.Exec{}); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupted)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, runner toolrun.Runner) error {
	var (
		configPath  string
		baseDir     string
		logLevel    string
		settleDelay time.Duration
		writeConfig bool
	)

	flagSet := pflag.NewFlagSet("qccprov", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "configuration file (default: <base-dir>/"+config.DefaultFileName+")")
	flagSet.StringVar(&baseDir, "base-dir", "", "directory holding lib/, db/ and config/ (default: program directory)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.DurationVar(&settleDelay, "settle-delay", provision.DefaultSettleDelay, "wait for the device to reboot after a reset")
	flagSet.BoolVar(&writeConfig, "write-config", false, "write the effective configuration to --config and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if baseDir == "" {
		dir, err := programDirectory()
		if err != nil {
			return err
		}
		baseDir = dir
	}
	if configPath == "" {
		configPath = filepath.Join(baseDir, config.DefaultFileName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if flagSet.Changed("settle-delay") {
		cfg.SettleDelay = config.Duration(settleDelay)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if writeConfig {
		return config.Save(configPath, cfg)
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Debug("starting", "base_dir", baseDir, "config", configPath)

	term := console.NewTerminal(stdout)
	prov := provision.New(cfg.Paths(baseDir), runner,
		provision.WithLogger(provisionLogger{logger}),
		provision.WithStatusCallback(term.Status),
		provision.WithToolOutput(term),
		provision.WithSettleDelay(time.Duration(cfg.SettleDelay)),
	)

	a := &app{
		prov:     prov,
		term:     term,
		prompt:   console.NewPrompter(stdin, term),
		log:      logger,
		identify: cfg.IdentifyOnStart,
	}
	return a.run(ctx)
}

// newLogger writes human-readable records to w.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Prefix:          "qccprov",
	}), nil
}

// provisionLogger adapts a charm logger to provision.Logger.
type provisionLogger struct {
	l *log.Logger
}

func (p provisionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.l.Debug(msg, keysAndValues...)
}

func (p provisionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.l.Info(msg, keysAndValues...)
}

func (p provisionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.l.Error(msg, keysAndValues...)
}

// programDirectory is the directory of the running executable, where the
// kiosk layout lives.
func programDirectory() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate program directory: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `qccprov provisions QCC514x audio devices on the production line.

The program directory (or --base-dir) must contain:
  lib/NvsCmd.exe, lib/ConfigCmd.exe   vendor tools
  db/hydracore_config.sdb             configuration database
  config/                             working copies of dev_cfg and user_ps_apps

Usage:
  qccprov [flags]

Flags:
`)
	flagSet.PrintDefaults()
}
