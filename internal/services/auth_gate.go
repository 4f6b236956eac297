package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// AllowlistSource answers whether a canonical wallet address is an admin.
type AllowlistSource interface {
	Contains(ctx context.Context, walletAddress string) (bool, error)
}

// RepositoryAllowlist looks wallets up in the admin_wallets store.
type RepositoryAllowlist struct {
	repo repositories.AdminWalletRepository
}

// NewRepositoryAllowlist creates an allowlist backed by the repository
func NewRepositoryAllowlist(repo repositories.AdminWalletRepository) *RepositoryAllowlist {
	return &RepositoryAllowlist{repo: repo}
}

func (a *RepositoryAllowlist) Contains(ctx context.Context, walletAddress string) (bool, error) {
	return a.repo.Exists(ctx, walletAddress)
}

// StaticAllowlist is a fixed set of wallets, typically from configuration.
type StaticAllowlist map[string]struct{}

// NewStaticAllowlist normalises every address; one malformed entry fails the whole list.
func NewStaticAllowlist(addresses []string) (StaticAllowlist, error) {
	list := make(StaticAllowlist, len(addresses))
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		canonical, _, err := utils.NormalizeWalletAddress(addr)
		if err != nil {
			return nil, fmt.Errorf("admin wallet %q: %w", addr, err)
		}
		list[canonical] = struct{}{}
	}
	return list, nil
}

func (s StaticAllowlist) Contains(_ context.Context, walletAddress string) (bool, error) {
	_, ok := s[walletAddress]
	return ok, nil
}

// CompositeAllowlist grants on the first source that contains the wallet.
type CompositeAllowlist []AllowlistSource

func (c CompositeAllowlist) Contains(ctx context.Context, walletAddress string) (bool, error) {
	for _, src := range c {
		ok, err := src.Contains(ctx, walletAddress)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// AuthorizationGate guards every mutating bounty operation.
type AuthorizationGate struct {
	source AllowlistSource
}

// NewAuthorizationGate creates a gate over the given allowlist
func NewAuthorizationGate(source AllowlistSource) *AuthorizationGate {
	return &AuthorizationGate{source: source}
}

// Authorize returns the canonical form of walletAddress when it is on the
// allowlist. Empty, malformed and unknown addresses yield ErrUnauthorized;
// a failing lookup yields ErrStore.
func (g *AuthorizationGate) Authorize(ctx context.Context, walletAddress string) (string, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return "", unauthorizedError("wallet address is required")
	}
	canonical, _, err := utils.NormalizeWalletAddress(walletAddress)
	if err != nil {
		slog.Warn("Rejected malformed wallet address", "wallet", utils.MaskWallet(walletAddress))
		return "", unauthorizedError("invalid wallet address")
	}

	ok, err := g.source.Contains(ctx, canonical)
	if err != nil {
		slog.Error("Allowlist lookup failed", "error", err, "wallet", utils.MaskWallet(canonical))
		return "", storeError("check admin allowlist", err)
	}
	if !ok {
		slog.Warn("Denied non-admin wallet", "wallet", utils.MaskWallet(canonical))
		return "", unauthorizedError("you are not authorized to perform this action")
	}
	return canonical, nil
}
