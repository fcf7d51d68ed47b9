package main

import (
	"context"
	"fmt"
	"strconv"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/app"
	"github.com/bhau7233/MSig/coin"
	"github.com/bhau7233/MSig/errors"
	"github.com/bhau7233/MSig/x/multisig"
	"github.com/spf13/cobra"
)

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "transaction id %q", raw)
	}
	return id, nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return errors.Wrapf(errors.ErrEmpty, "--%s is required", name)
	}
	return nil
}

func proposeCmd() *cobra.Command {
	var (
		from, to string
		amount   coin.Coin
	)
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Propose a payment from the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("from", from); err != nil {
				return err
			}
			if err := requireFlag("to", to); err != nil {
				return err
			}
			caller, err := resolveAddress(from)
			if err != nil {
				return err
			}
			dst, err := resolveAddress(to)
			if err != nil {
				return errors.Wrap(multisig.ErrInvalidDestination, err.Error())
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				id, err := a.Engine().Propose(ctx, caller, dst, amount)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "proposing owner, key name or address")
	cmd.Flags().StringVar(&to, "to", "", "destination, key name or address")
	cmd.Flags().Var(&amount, "amount", `amount to pay, for example "12.5 IOV"`)
	return cmd
}

// ownerTxCmd returns a command calling fn with the caller address and the
// transaction id.
func ownerTxCmd(use, short string, fn func(ctx context.Context, a *app.App, id uint64, cmd *cobra.Command) error) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   use + " <transaction id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("from", from); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return fn(ctx, a, id, cmd)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "owner, key name or address")
	return cmd
}

func printResult(cmd *cobra.Command, res multisig.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "transaction %d: %d confirmations, execution %s\n",
		res.TransactionID, res.Confirmations, res.Outcome)
	if res.Log != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Log)
	}
}

func confirmCmd() *cobra.Command {
	return ownerTxCmd("confirm", "Confirm a transaction, executing it when the quorum is reached",
		func(ctx context.Context, a *app.App, id uint64, cmd *cobra.Command) error {
			caller, err := callerAddress(cmd)
			if err != nil {
				return err
			}
			res, err := a.Engine().Confirm(ctx, caller, id)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
}

func executeCmd() *cobra.Command {
	return ownerTxCmd("execute", "Retry the execution of an approved transaction",
		func(ctx context.Context, a *app.App, id uint64, cmd *cobra.Command) error {
			caller, err := callerAddress(cmd)
			if err != nil {
				return err
			}
			res, err := a.Engine().Execute(ctx, caller, id)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
}

func revokeCmd() *cobra.Command {
	return ownerTxCmd("revoke", "Revoke a confirmation",
		func(ctx context.Context, a *app.App, id uint64, cmd *cobra.Command) error {
			caller, err := callerAddress(cmd)
			if err != nil {
				return err
			}
			if err := a.Engine().Revoke(ctx, caller, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %d: confirmation revoked\n", id)
			return nil
		})
}

func depositCmd() *cobra.Command {
	var (
		from   string
		amount coin.Coin
	)
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Move funds into the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("from", from); err != nil {
				return err
			}
			sender, err := resolveAddress(from)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Engine().Deposit(ctx, sender, amount); err != nil {
					return err
				}
				balance, err := a.Engine().Balance(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pool balance: %s\n", balance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "sender, key name or address")
	cmd.Flags().Var(&amount, "amount", `amount to deposit, for example "12.5 IOV"`)
	return cmd
}

// callerAddress resolves the --from flag of an owner command.
func callerAddress(cmd *cobra.Command) (msig.Address, error) {
	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return nil, err
	}
	return resolveAddress(from)
}
