package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20BalanceOfABI = `[{
	"name": "balanceOf",
	"type": "function",
	"stateMutability": "view",
	"inputs": [{"name": "account", "type": "address"}],
	"outputs": [{"name": "", "type": "uint256"}]
}]`

var ErrInvalidAddress = errors.New("invalid address")

var balanceOfABI = mustParseABI(erc20BalanceOfABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// TokenReader reads ERC-20 balances of the faucet token.
type TokenReader struct {
	rpcURL   string
	token    common.Address
	decimals uint8
}

func NewTokenReader(rpcURL, tokenAddress string, decimals uint8) (*TokenReader, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("token %q: %w", tokenAddress, ErrInvalidAddress)
	}
	return &TokenReader{
		rpcURL:   rpcURL,
		token:    common.HexToAddress(tokenAddress),
		decimals: decimals,
	}, nil
}

// Balance returns the token balance of holder in whole tokens.
func (r *TokenReader) Balance(ctx context.Context, holder string) (*big.Float, error) {
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("holder %q: %w", holder, ErrInvalidAddress)
	}

	client, err := ethclient.DialContext(ctx, r.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	data, err := balanceOfABI.Pack("balanceOf", common.HexToAddress(holder))
	if err != nil {
		return nil, err
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &r.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}

	values, err := balanceOfABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("decode balanceOf: %w", err)
	}
	raw, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode balanceOf: unexpected %T", values[0])
	}

	return ToUnits(raw, r.decimals), nil
}

// ToUnits scales a raw token amount down by 10^decimals.
func ToUnits(amount *big.Int, decimals uint8) *big.Float {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(scale))
}
