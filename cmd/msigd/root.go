package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/app"
	"github.com/bhau7233/MSig/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	home     string
	logLevel string
	debug    bool
)

func defaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".msigd")
	}
	return ".msigd"
}

// NewRootCmd returns the msigd command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "msigd",
		Short:         "Custody pool shared by a fixed set of owners",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&home, "home", defaultHome(), "directory holding the state and the keys")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, error or none")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "print full error details")

	root.AddCommand(
		initCmd(),
		keysCmd(),
		proposeCmd(),
		confirmCmd(),
		revokeCmd(),
		executeCmd(),
		depositCmd(),
		showCmd(),
		listCmd(),
		eventsCmd(),
		ownersCmd(),
		balanceCmd(),
		versionCmd(),
	)
	return root
}

func newLogger(w io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	opt, err := log.AllowLevel(logLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// withApp opens the application state, calls fn and commits all changes
// if fn succeeded.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return openApp(cmd, true, fn)
}

// viewApp is like withApp but never commits.
func viewApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return openApp(cmd, false, fn)
}

func openApp(cmd *cobra.Command, commit bool, fn func(ctx context.Context, a *app.App) error) error {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	state, err := app.OpenState(home)
	if err != nil {
		return err
	}
	defer state.Close()

	a, err := app.New(state, logger)
	if err != nil {
		return err
	}
	if err := fn(a.Context(context.Background()), a); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	return a.Commit()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolveAddress accepts the name of a local key or an address.
func resolveAddress(nameOrAddr string) (msig.Address, error) {
	if key, err := loadKey(nameOrAddr); err == nil {
		return key.Address(), nil
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	addr, err := msig.ParseAddress(nameOrAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "%q is neither a key nor an address", nameOrAddr)
	}
	return addr, nil
}
