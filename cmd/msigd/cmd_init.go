package main

import (
	"fmt"

	"github.com/bhau7233/MSig/app"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <genesis.json>",
		Short: "Initialize the state from a genesis file",
		Long: `Initialize the state from a genesis file.

The genesis declares the chain id and the app_state. The "multisig" entry
configures the owners, the threshold, the ticker and the pool address. The
"cash" entry lists initial balances.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			state, err := app.OpenState(home)
			if err != nil {
				return err
			}
			defer state.Close()

			if err := state.InitChain(gen, app.Initializers()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s in %s\n", state.ChainID(), home)
			return nil
		},
	}
}
