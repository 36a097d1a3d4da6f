package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/galihrivanto/tribfaucet/config"
	"github.com/galihrivanto/tribfaucet/cooldown"
	"github.com/galihrivanto/tribfaucet/faucet"
	"github.com/galihrivanto/tribfaucet/storage"
	"github.com/galihrivanto/tribfaucet/widget"
)

var (
	configPath  string
	endpoint    string
	claimerName string
	dataDir     string
	logLevel    string
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
)

// AddFlags registers the flags shared by every command.
func AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "config file (default ~/.tribfaucet/config.yaml)")
	f.StringVar(&endpoint, "endpoint", "", "claim endpoint URL")
	f.StringVar(&claimerName, "claimer", "", fmt.Sprintf("claim transport %v", faucet.Names()))
	f.StringVar(&dataDir, "data-dir", "", "directory holding the claim record")
	f.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Claim.Endpoint = endpoint
	}
	if flags.Changed("claimer") {
		cfg.Claim.Claimer = claimerName
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	cfg.DataDir = config.ExpandHome(cfg.DataDir)
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "tribfaucet",
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// session holds what every faucet command needs.
type session struct {
	cfg     *config.Config
	log     *log.Logger
	store   storage.StoreCloser
	tracker *cooldown.Tracker
	claimer faucet.Claimer
}

func newSession(cfg *config.Config, logOut io.Writer) (*session, error) {
	logger := newLogger(cfg, logOut)

	store, err := storage.Open(cfg.Storage.Driver, cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}

	claimer, err := faucet.New(cfg.Claim.Claimer, faucet.Options{
		Endpoint:   cfg.Claim.Endpoint,
		Timeout:    cfg.Claim.Timeout,
		BrowserURL: cfg.Claim.BrowserURL,
		Logger:     logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &session{
		cfg:     cfg,
		log:     logger,
		store:   store,
		tracker: cooldown.NewTracker(cooldown.NewStore(store), nil, logger),
		claimer: claimer,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// printNotifier writes notifications as single lines.
func printNotifier(w io.Writer) widget.Notifier {
	return widget.NotifierFunc(func(n widget.Notification) {
		style := successStyle
		if n.Level == widget.LevelError {
			style = errorStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render(n.Title), n.Detail)
	})
}
