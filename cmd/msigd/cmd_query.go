package main

import (
	"context"
	"fmt"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/app"
	"github.com/bhau7233/MSig/x/multisig"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction id>",
		Short: "Show a transaction and its confirming owners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return viewApp(cmd, func(ctx context.Context, a *app.App) error {
				view, err := a.Engine().Transaction(ctx, id)
				if err != nil {
					return err
				}
				owners, err := a.Engine().Confirmations(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					multisig.TransactionView
					ConfirmedBy []msig.Address `json:"confirmed_by"`
				}{view, owners})
			})
		},
	}
}

func listCmd() *cobra.Command {
	var (
		q      multisig.TransactionQuery
		dst    string
		counts bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List transactions ordered by id.

Without --pending and --executed all transactions are listed. A transaction
whose transfer is in progress is listed as executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !q.Pending && !q.Executed {
				q.Pending, q.Executed = true, true
			}
			return viewApp(cmd, func(ctx context.Context, a *app.App) error {
				if counts {
					n, err := a.Engine().CountTransactions(ctx, q.Pending, q.Executed)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), n)
					return nil
				}
				if dst != "" {
					addr, err := resolveAddress(dst)
					if err != nil {
						return err
					}
					views, err := a.Engine().TransactionsTo(ctx, addr)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), views)
				}
				views, err := a.Engine().Transactions(ctx, q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().BoolVar(&q.Pending, "pending", false, "list pending transactions")
	cmd.Flags().BoolVar(&q.Executed, "executed", false, "list executed transactions")
	cmd.Flags().Uint64Var(&q.From, "start", 0, "first transaction id")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum number of transactions, 0 for all")
	cmd.Flags().StringVar(&dst, "to", "", "only transactions paying to this destination")
	cmd.Flags().BoolVar(&counts, "count", false, "print the number of matching transactions only")
	return cmd
}

func eventsCmd() *cobra.Command {
	var (
		after uint64
		limit int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewApp(cmd, func(ctx context.Context, a *app.App) error {
				events, err := a.Engine().Events(ctx, after, limit)
				if err != nil {
					return err
				}
				for _, e := range events {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", e.Sequence, e.Kind, describe(e))
				}
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&after, "after", 0, "print events following this sequence")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events, 0 for all")
	return cmd
}

func describe(e multisig.Event) string {
	switch e.Kind {
	case multisig.EventDeposit:
		return fmt.Sprintf("sender=%s amount=%s", e.Actor, e.Amount)
	case multisig.EventNewTransaction:
		return fmt.Sprintf("tx=%d destination=%s amount=%s", e.TransactionID, e.Destination, e.Amount)
	case multisig.EventConfirmation, multisig.EventRevocation:
		return fmt.Sprintf("tx=%d owner=%s", e.TransactionID, e.Actor)
	default:
		return fmt.Sprintf("tx=%d", e.TransactionID)
	}
}

func ownersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "Print the owners and the threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, o := range a.Engine().Owners() {
					fmt.Fprintln(cmd.OutOrStdout(), o)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "threshold: %d\n", a.Engine().Threshold())
				return nil
			})
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [key name or address]",
		Short: "Print the pool balance or the wallet of an address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewApp(cmd, func(ctx context.Context, a *app.App) error {
				if len(args) == 0 {
					balance, err := a.Engine().Balance(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), balance)
					return nil
				}
				addr, err := resolveAddress(args[0])
				if err != nil {
					return err
				}
				coins, err := a.Wallet(addr)
				if err != nil {
					return err
				}
				for _, c := range coins {
					fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), msig.Version())
		},
	}
}
