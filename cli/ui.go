package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/galihrivanto/tribfaucet/widget"
)

var UICmd = &cobra.Command{
	Use:   "ui [address]",
	Short: "Open the interactive claim form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// the terminal belongs to the form, so logs go to a file
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer logFile.Close()

		s, err := newSession(cfg, logFile)
		if err != nil {
			return err
		}
		defer s.Close()

		toasts := &widget.Toasts{}
		w := widget.New(s.tracker, s.claimer, toasts, s.log)
		address, err := addressArg(cfg, args)
		switch {
		case err == nil:
			w.SetAddress(address)
		case !errors.Is(err, ErrNoAddress):
			s.log.Warn("load saved wallet", "err", err)
		}

		return widget.Run(cmd.Context(), w, toasts)
	},
}
