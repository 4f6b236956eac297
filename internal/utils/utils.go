package utils

import (
	"strings"
)

// MaskWallet masks a wallet address for logging (first 4 and last 4 characters)
func MaskWallet(addr string) string {
	if len(addr) > 10 {
		return addr[:4] + "…" + addr[len(addr)-4:]
	}
	return "****"
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
