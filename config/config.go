package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ClaimConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	Claimer    string        `yaml:"claimer"` // "http" or "browser"
	Timeout    time.Duration `yaml:"timeout"`
	BrowserURL string        `yaml:"browser_url"` // DevTools URL; empty launches a local browser
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
}

type TokenConfig struct {
	RPCURL   string `yaml:"rpc_url"`
	Address  string `yaml:"address"`
	Decimals uint8  `yaml:"decimals"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	DataDir string        `yaml:"data_dir"`
	Claim   ClaimConfig   `yaml:"claim"`
	Storage StorageConfig `yaml:"storage"`
	Token   TokenConfig   `yaml:"token"`
	Log     LogConfig     `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: ExpandHome("~/.tribfaucet"),
		Claim: ClaimConfig{
			Endpoint: "http://localhost:3000/api/claim",
			Claimer:  "http",
			Timeout:  30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
		},
		Token: TokenConfig{
			RPCURL:   "http://localhost:8545",
			Address:  "0x0000000000000000000000000000000000000000",
			Decimals: 18,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, "config.yaml")
}

// Load reads a YAML config file and merges it over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.DataDir = ExpandHome(cfg.DataDir)
	return cfg, nil
}

// applyEnv overlays environment variables on top of config values.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRIBFAUCET_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TRIBFAUCET_ENDPOINT"); v != "" {
		c.Claim.Endpoint = v
	}
	if v := os.Getenv("TRIBFAUCET_CLAIMER"); v != "" {
		c.Claim.Claimer = v
	}
	if v := os.Getenv("TRIBFAUCET_BROWSER_URL"); v != "" {
		c.Claim.BrowserURL = v
	}
	if v := os.Getenv("TRIBFAUCET_RPC_URL"); v != "" {
		c.Token.RPCURL = v
	}
	if v := os.Getenv("TRIBFAUCET_TOKEN_ADDRESS"); v != "" {
		c.Token.Address = v
	}
	if v := os.Getenv("TRIBFAUCET_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// ExpandHome replaces a leading "~" with the user's home directory. When
// the home directory is unknown the path is returned relative to the
// working directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", path[1:])
	}
	return filepath.Join(home, path[1:])
}

// LogPath is where the interactive UI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "tribfaucet.log")
}

// KeyPath is where `wallet generate` keeps the private key.
func (c *Config) KeyPath() string {
	return filepath.Join(c.DataDir, "wallet.key")
}
