package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidKey = errors.New("invalid private key")

// Wallet is a locally held key whose address can receive faucet tokens.
type Wallet struct {
	Address    string
	PrivateKey string
}

// Generate creates a fresh key pair.
func Generate() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return fromKey(key), nil
}

// Load reads a hex private key written by Save.
func Load(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidKey, err)
	}
	return fromKey(key), nil
}

// Save writes the private key as hex, readable only by the owner.
func (w *Wallet) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(w.PrivateKey+"\n"), 0o600)
}

func fromKey(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: fmt.Sprintf("%x", crypto.FromECDSA(key)),
	}
}
