package models

import (
	"time"
)

// AdminWallet marks a wallet address as a member of the admin allowlist.
// Addresses are stored in canonical form (see utils.NormalizeWalletAddress).
type AdminWallet struct {
	ID            string    `bson:"_id,omitempty" json:"id,omitempty"`
	WalletAddress string    `bson:"walletAddress" json:"wallet_address"`
	Label         string    `bson:"label,omitempty" json:"label,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}
