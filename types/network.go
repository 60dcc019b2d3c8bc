package types

import (
	"fmt"
	"strings"
)

// Network represents the TON network a payment is sent on
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// TON Connect CHAIN identifiers
const (
	ChainIDMainnet = "-239"
	ChainIDTestnet = "-3"
)

// ParseNetwork accepts the network name, its short form or the chain id.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", "main", ChainIDMainnet:
		return NetworkMainnet, nil
	case "testnet", "test", ChainIDTestnet:
		return NetworkTestnet, nil
	default:
		return "", fmt.Errorf("unknown TON network: %q", s)
	}
}

// ChainID returns the identifier wallets expect in a transaction request
func (n Network) ChainID() string {
	if n.IsTestnet() {
		return ChainIDTestnet
	}
	return ChainIDMainnet
}

func (n Network) IsTestnet() bool {
	return n == NetworkTestnet
}

func (n Network) IsValid() bool {
	return n == NetworkMainnet || n == NetworkTestnet
}

func (n Network) String() string {
	return string(n)
}
