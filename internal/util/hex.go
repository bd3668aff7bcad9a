package util

import (
	"fmt"
	"math/big"
	"strings"
)

// TrimHexPrefix drops a leading 0x/0X from a quantity string.
func TrimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}

// HexToBigInt parses an Ethereum JSON-RPC quantity ("0x..") into a big.Int.
func HexToBigInt(s string) (*big.Int, error) {
	hexStr := TrimHexPrefix(strings.TrimSpace(s))
	if hexStr == "" {
		return nil, fmt.Errorf("empty hex quantity")
	}
	v, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity `%s`", s)
	}
	return v, nil
}

// HexToUint64 parses an Ethereum JSON-RPC quantity into a uint64.
func HexToUint64(s string) (uint64, error) {
	v, err := HexToBigInt(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("hex quantity `%s` overflows uint64", s)
	}
	return v.Uint64(), nil
}
