package utils

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// ErrInvalidWalletAddress is returned for addresses that are neither EVM hex
// nor Solana base58.
var ErrInvalidWalletAddress = errors.New("invalid wallet address")

// WalletKind identifies the chain family of an address
type WalletKind string

const (
	WalletKindEVM    WalletKind = "evm"
	WalletKindSolana WalletKind = "solana"
)

// NormalizeWalletAddress validates addr and returns its canonical form.
// EVM addresses are lower-cased (mixed case must carry a valid EIP-55
// checksum); Solana addresses are returned verbatim.
func NormalizeWalletAddress(addr string) (string, WalletKind, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", "", ErrInvalidWalletAddress
	}
	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		body := addr[2:]
		if len(body) != 40 {
			return "", "", ErrInvalidWalletAddress
		}
		if _, err := hex.DecodeString(body); err != nil {
			return "", "", ErrInvalidWalletAddress
		}
		if isMixedCase(body) && body != eip55(body) {
			return "", "", ErrInvalidWalletAddress
		}
		return "0x" + strings.ToLower(body), WalletKindEVM, nil
	}
	if len(addr) < 32 || len(addr) > 44 {
		return "", "", ErrInvalidWalletAddress
	}
	decoded, err := base58.Decode(addr)
	if err != nil || len(decoded) != 32 {
		return "", "", ErrInvalidWalletAddress
	}
	return addr, WalletKindSolana, nil
}

// ChecksumAddress returns the EIP-55 form of a 0x-prefixed EVM address.
func ChecksumAddress(addr string) (string, error) {
	canonical, kind, err := NormalizeWalletAddress(addr)
	if err != nil {
		return "", err
	}
	if kind != WalletKindEVM {
		return canonical, nil
	}
	return "0x" + eip55(canonical[2:]), nil
}

func isMixedCase(s string) bool {
	return strings.ToLower(s) != s && strings.ToUpper(s) != s
}

// eip55 applies the keccak-based capitalisation to 40 hex characters.
func eip55(body string) string {
	lower := strings.ToLower(body)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i := range out {
		if out[i] >= 'a' && out[i] <= 'f' && digest[i] >= '8' {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}
