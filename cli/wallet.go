package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galihrivanto/tribfaucet/config"
	"github.com/galihrivanto/tribfaucet/wallet"
	"github.com/galihrivanto/tribfaucet/widget"
)

var ErrNoAddress = errors.New("no address given and no saved wallet (run `tribfaucet wallet generate`)")

var WalletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the wallet that receives TRIB",
}

// addressArg returns the address argument, or the saved wallet's address
// when none was given.
func addressArg(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	w, err := wallet.Load(cfg.KeyPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoAddress
	}
	if err != nil {
		return "", err
	}
	return w.Address, nil
}

var force bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a wallet to claim into",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		path := cfg.KeyPath()
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("wallet already exists at %s (use --force to replace it)", path)
		}

		w, err := wallet.Generate()
		if err != nil {
			return err
		}
		if err := w.Save(path); err != nil {
			return fmt.Errorf("save wallet: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, w.Address)
		fmt.Fprintf(cmd.ErrOrStderr(), "private key saved to %s\n", path)
		return nil
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the saved wallet address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		address, err := addressArg(cfg, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), address)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Check the TRIB balance of an address, or of the saved wallet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		address, err := addressArg(cfg, args)
		if err != nil {
			return err
		}

		reader, err := wallet.NewTokenReader(cfg.Token.RPCURL, cfg.Token.Address, cfg.Token.Decimals)
		if err != nil {
			return err
		}

		balance, err := reader.Balance(cmd.Context(), address)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", balance.Text('f', 4), widget.Token)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&force, "force", false, "replace an existing wallet")

	WalletCmd.AddCommand(generateCmd)
	WalletCmd.AddCommand(addressCmd)
	WalletCmd.AddCommand(balanceCmd)
}
