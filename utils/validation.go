package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/konnektoren/tonpay/types"
	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

// TonDecimals is the number of decimal places between TON and nanoton
const TonDecimals = 9

// ParseAddress parses a user friendly or a raw ("0:<hex>") TON address
func ParseAddress(addr string) (*address.Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	if strings.Contains(addr, ":") {
		a, err := address.ParseRawAddr(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid raw TON address %q: %w", addr, err)
		}
		return a, nil
	}

	a, err := address.ParseAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid TON address %q: %w", addr, err)
	}
	return a, nil
}

// ValidateAddressForNetwork checks that addr parses and can receive funds on network.
// Testnet-only addresses are rejected on mainnet.
func ValidateAddressForNetwork(addr string, network types.Network) error {
	a, err := ParseAddress(addr)
	if err != nil {
		return err
	}

	if a.IsTestnetOnly() && !network.IsTestnet() {
		return fmt.Errorf("address %s is testnet-only and cannot be used on %s", addr, network)
	}
	return nil
}

// ToUserFriendly renders addr in the non-bounceable user friendly form wallets display
func ToUserFriendly(addr string, network types.Network) (string, error) {
	a, err := ParseAddress(addr)
	if err != nil {
		return "", err
	}
	a.SetBounce(false)
	a.SetTestnetOnly(network.IsTestnet())
	return a.String(), nil
}

// ValidateAmount checks if an amount string is a valid non-negative decimal
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &dec, nil
}

// ParseNanoAmount parses an integer nanoton amount such as "100000000"
func ParseNanoAmount(amount string) (tlb.Coins, error) {
	dec, err := ValidateAmount(amount)
	if err != nil {
		return tlb.ZeroCoins, err
	}

	if !dec.IsInteger() {
		return tlb.ZeroCoins, fmt.Errorf("nanoton amount must be an integer: %s", amount)
	}

	return tlb.FromNanoTON(dec.BigInt()), nil
}

// ParseTONAmount parses a decimal TON amount such as "0.1"
func ParseTONAmount(amount string) (tlb.Coins, error) {
	dec, err := ValidateAmount(amount)
	if err != nil {
		return tlb.ZeroCoins, err
	}

	nano := dec.Shift(TonDecimals)
	if !nano.IsInteger() {
		return tlb.ZeroCoins, fmt.Errorf("TON amount has more than %d decimal places: %s", TonDecimals, amount)
	}

	return tlb.FromNanoTON(nano.BigInt()), nil
}

// CoinsFromDecimal converts a TON decimal value into nanoton coins
func CoinsFromDecimal(amount decimal.Decimal) (tlb.Coins, error) {
	return ParseTONAmount(amount.String())
}

// FormatTON formats nanoton coins as a decimal TON string
func FormatTON(c tlb.Coins) string {
	return decimal.NewFromBigInt(c.Nano(), -TonDecimals).String()
}

// ValidateDeadline ensures a unix deadline is in the future. Zero means no deadline.
func ValidateDeadline(validUntil int64, now time.Time) error {
	if validUntil == 0 {
		return nil
	}

	if validUntil <= now.Unix() {
		return fmt.Errorf("deadline %s has passed", time.Unix(validUntil, 0).UTC().Format(time.RFC3339))
	}

	return nil
}
