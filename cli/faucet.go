package cli

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/galihrivanto/tribfaucet/widget"
)

var FaucetCmd = &cobra.Command{
	Use:   "faucet",
	Short: "Claim TRIB from the faucet",
}

var claimCmd = &cobra.Command{
	Use:   "claim [address]",
	Short: "Claim TRIB to an address, or to the saved wallet",
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
		if n := utf8.RuneCountInString(address); n != widget.AddressLength {
			return fmt.Errorf("address must be %d characters, got %d", widget.AddressLength, n)
		}
		s, err := newSession(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		w := widget.New(s.tracker, s.claimer, printNotifier(cmd.OutOrStdout()), s.log)
		w.SetAddress(address)

		if err := w.Submit(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Tokens have been sent to your wallet!")
		return nil
	},
}

var watch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the time left until the next claim",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := newSession(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if !watch {
			if remaining := s.tracker.Check(); remaining != "" {
				fmt.Fprintf(out, "Next claim in %s\n", remaining)
			} else {
				fmt.Fprintln(out, "Ready to claim")
			}
			return nil
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s.tracker.Run(ctx, func(remaining string) {
			if remaining == "" {
				fmt.Fprintln(out, "\rReady to claim         ")
				cancel()
				return
			}
			fmt.Fprintf(out, "\rNext claim in %-12s", remaining)
		})
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep counting down until a claim is allowed")

	FaucetCmd.AddCommand(claimCmd)
	FaucetCmd.AddCommand(statusCmd)
}
