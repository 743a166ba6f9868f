package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// printError writes err in the long form when it carries a code.
func printError(w io.Writer, err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// app is the state shared by all commands: the config loader the flags
// are bound to, and the config and logger resolved before a command runs.
type app struct {
	loader   *config.Loader
	bindings map[*cobra.Command][]binding

	cfg    *config.Config
	logger *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// binding ties a config key to a command flag.
type binding struct {
	key  string
	flag string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		loader:   config.NewLoader(),
		bindings: make(map[*cobra.Command][]binding),
		stdout:   stdout,
		stderr:   stderr,
	}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "Render typed HTML node trees",
		Long: `Loom renders page files to HTML.

Pages are YAML files describing an element tree with inline
styles. Loom collects the styles into a deduplicated stylesheet
and renders the page buffered or as a stream:

  • render  writes a page to stdout or a file
  • serve   serves a page directory over HTTP and websockets
  • publish uploads rendered pages to an S3 bucket`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				errors.DisableColors()
			}
			if err := a.bindFlags(cmd); err != nil {
				return err
			}
			return a.load(configPath)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: loom.yaml in the working directory or a parent)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	if err := a.loader.Viper().BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		renderCmd(a),
		serveCmd(a),
		publishCmd(a),
		validateCmd(a),
		versionCmd(a),
	)
	return rootCmd
}

// bind makes the flag of cmd override the config key when cmd runs and
// the flag is set. Several commands may bind the same key; only the
// running command's flags are bound.
func (a *app) bind(cmd *cobra.Command, key, flag string) {
	a.bindings[cmd] = append(a.bindings[cmd], binding{key: key, flag: flag})
}

func (a *app) bindFlags(cmd *cobra.Command) error {
	for _, b := range a.bindings[cmd] {
		if err := a.loader.Viper().BindPFlag(b.key, cmd.Flags().Lookup(b.flag)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) load(configPath string) error {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(a.stderr, opts)
	} else {
		handler = slog.NewTextHandler(a.stderr, opts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)
	return nil
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.stdout, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (a *app) errorMsg(format string, args ...any) {
	fmt.Fprintf(a.stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
