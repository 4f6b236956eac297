package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ repositories.AdminWalletRepository = (*AdminWalletRepository)(nil)

// AdminWalletRepository stores the admin allowlist in PostgreSQL
type AdminWalletRepository struct {
	db *gorm.DB
}

// NewAdminWalletRepository creates a new AdminWalletRepository
func NewAdminWalletRepository(db *gorm.DB) *AdminWalletRepository {
	return &AdminWalletRepository{db: db}
}

// Add inserts the wallet, refreshing the label if it already exists
func (r *AdminWalletRepository) Add(ctx context.Context, wallet *models.AdminWallet) error {
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now().UTC()
	}
	row := adminWalletRow{
		ID:            uuid.NewString(),
		WalletAddress: wallet.WalletAddress,
		Label:         wallet.Label,
		CreatedAt:     wallet.CreatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"label"}),
	}).Create(&row).Error
	return translate(err)
}

// Remove deletes a wallet from the allowlist
func (r *AdminWalletRepository) Remove(ctx context.Context, walletAddress string) error {
	res := r.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).Delete(&adminWalletRow{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Exists checks if a wallet is on the allowlist
func (r *AdminWalletRepository) Exists(ctx context.Context, walletAddress string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&adminWalletRow{}).Where("wallet_address = ?", walletAddress).Limit(1).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// FindAll returns every allowlisted wallet
func (r *AdminWalletRepository) FindAll(ctx context.Context) ([]*models.AdminWallet, error) {
	var rows []adminWalletRow
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	wallets := make([]*models.AdminWallet, 0, len(rows))
	for _, row := range rows {
		wallets = append(wallets, &models.AdminWallet{
			ID:            row.ID,
			WalletAddress: row.WalletAddress,
			Label:         row.Label,
			CreatedAt:     row.CreatedAt,
		})
	}
	return wallets, nil
}
