// Package wallet derives display deposit addresses for holdings and checks
// the shape of outgoing addresses. No keys are generated or stored: funds are
// simulated, the address only identifies the holding.
package wallet

import (
	"crypto/sha256"
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
)

var ErrInvalidAddress = errors.New("invalid wallet address")

// symbols whose addresses follow the EVM format
var evmSymbols = map[string]bool{
	"ETH": true, "USDT": true, "USDC": true, "BNB": true, "LINK": true,
	"UNI": true, "MATIC": true, "SHIB": true, "AVAX": true,
}

const (
	tronPrefix    = 0x41
	genericPrefix = 0x00
)

// DepositAddress derives a stable address for the (user, symbol) holding.
func DepositAddress(userID, symbol string) string {
	symbol = strings.ToUpper(symbol)
	hash := crypto.Keccak256([]byte("honor:" + userID + ":" + symbol))
	payload := hash[12:]

	switch {
	case evmSymbols[symbol]:
		return common.BytesToAddress(payload).Hex()
	case symbol == "TRX":
		return base58Check(tronPrefix, payload)
	default:
		return base58Check(genericPrefix, payload)
	}
}

// base58Check prefixes payload with version and appends the double SHA256
// checksum, as TRON and Bitcoin addresses do.
func base58Check(version byte, payload []byte) string {
	addr := append([]byte{version}, payload...)
	first := sha256.Sum256(addr)
	second := sha256.Sum256(first[:])
	full := append(addr, second[:4]...)
	return base58.Encode(full)
}

var plainAddress = regexp.MustCompile(`^[a-zA-Z0-9]{20,128}$`)

// ValidateAddress accepts EVM hex addresses, base58check addresses with a
// valid checksum and other plain alphanumeric addresses of plausible length.
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	switch {
	case strings.HasPrefix(addr, "0x"):
		if !common.IsHexAddress(addr) {
			return ErrInvalidAddress
		}
		return nil
	case strings.HasPrefix(addr, "T") && len(addr) == 34:
		return checkBase58(addr)
	case plainAddress.MatchString(addr):
		return nil
	default:
		return ErrInvalidAddress
	}
}

func checkBase58(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 25 {
		return ErrInvalidAddress
	}
	first := sha256.Sum256(raw[:21])
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if raw[21+i] != second[i] {
			return ErrInvalidAddress
		}
	}
	return nil
}
