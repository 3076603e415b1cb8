// remtool transfers files from a desktop machine onto a reMarkable tablet's
// document store over SSH, and lists or inspects documents already there.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacybrock/reMarkable-remtool/internal/config"
	"github.com/stacybrock/reMarkable-remtool/internal/logging"
	"github.com/stacybrock/reMarkable-remtool/internal/remote"
	_ "github.com/stacybrock/reMarkable-remtool/internal/remote/openssh"
	_ "github.com/stacybrock/reMarkable-remtool/internal/remote/sshlib"
	"github.com/stacybrock/reMarkable-remtool/internal/store"
	"github.com/stacybrock/reMarkable-remtool/internal/transfer"
	"github.com/stacybrock/reMarkable-remtool/internal/tree"
	"github.com/stacybrock/reMarkable-remtool/internal/ui"
)

const version = "0.2.0"

var (
	flagConfig    string
	flagHost      string
	flagTransport string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "remtool",
	Short:   "Move files onto a reMarkable tablet over SSH",
	Version: version,
	Long: `remtool talks to a reMarkable tablet's document store over SSH.

It can upload PDF and EPUB files into the tablet's library, list folders,
and inspect document metadata. The tablet needs no extra software; remtool
writes the same sidecar files xochitl itself maintains.

Configuration comes from remtool.yaml (current directory or
~/.config/remtool/), REMTOOL_* environment variables, and flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default remtool.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "device address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTransport, "transport", "", "transport backend: openssh or ssh")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderErr("error:"), err)
		if hint := connectionHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(exitCode(err))
	}
}

// connectionHint suggests a next step when the transport itself is unusable,
// as opposed to a single operation failing on a working connection.
func connectionHint(err error) string {
	if remote.IsFatal(err) {
		return "check that the tablet is awake, connected, and reachable at the configured host"
	}
	return ""
}

// Exit codes, one per error kind so scripts can branch on the failure mode.
const (
	exitGeneric      = 1
	exitAccess       = 2
	exitWrite        = 3
	exitPath         = 4
	exitNotFound     = 5
	exitNotADocument = 6
	exitCollision    = 7
	exitConcurrent   = 8
	exitUnsupported  = 9
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, store.ErrAccess), errors.Is(err, remote.ErrUnreachable),
		errors.Is(err, remote.ErrAuthFailed), errors.Is(err, remote.ErrTransportUnavailable):
		return exitAccess
	case errors.Is(err, store.ErrWrite):
		return exitWrite
	case errors.Is(err, tree.ErrNotAFolder):
		return exitPath
	case errors.Is(err, tree.ErrNotFound):
		return exitNotFound
	case errors.Is(err, transfer.ErrNotADocument):
		return exitNotADocument
	case errors.Is(err, transfer.ErrCollision):
		return exitCollision
	case errors.Is(err, transfer.ErrConcurrentModification):
		return exitConcurrent
	case errors.Is(err, transfer.ErrAnnotatedOverwrite), errors.Is(err, transfer.ErrUnsupportedType):
		return exitUnsupported
	default:
		return exitGeneric
	}
}

// app bundles everything a command needs after setup.
type app struct {
	cfg    *config.Config
	log    logging.Logger
	runner remote.Runner
	op     *transfer.Operator
}

// setup loads config, connects to the device, and loads the document tree.
// Every command starts here; the tree snapshot is fresh per invocation.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagTransport != "" {
		cfg.Transport = flagTransport
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log := logging.New(level, cfg.Log.File)

	factory := remote.NewFactory(
		remote.WithPreferredType(remote.Type(cfg.Transport)),
		remote.WithFallbackType(remote.TypeOpenSSH),
	)
	runner, err := factory.Create(remote.Options{
		Host:         cfg.Host,
		User:         cfg.User,
		Port:         cfg.Port,
		IdentityFile: cfg.IdentityFile,
		Timeout:      cfg.CommandTimeout,
	})
	if err != nil {
		return nil, err
	}

	st := store.New(runner, cfg.StorePath, log)
	t, err := st.LoadTree(ctx)
	if err != nil {
		runner.Close()
		return nil, err
	}
	log.Debug(ctx, "tree loaded", "nodes", t.Len(), "transport", runner.Name())

	return &app{
		cfg:    cfg,
		log:    log,
		runner: runner,
		op:     transfer.NewOperator(st, t, log),
	}, nil
}

func (a *app) Close() {
	a.runner.Close()
}
