package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/galihrivanto/tribfaucet/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "tribfaucet",
	Short:         "Claim TRIB tokens from the faucet",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cli.AddFlags(rootCmd)
	rootCmd.AddCommand(cli.UICmd)
	rootCmd.AddCommand(cli.FaucetCmd)
	rootCmd.AddCommand(cli.WalletCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
