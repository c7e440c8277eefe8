package vault

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Vault row of the vaults table
type Vault struct {
	ID                 uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT"`
	Token              string          `sql:"size:64;unique_index:idx_vaults_token"`
	Feed               string          `sql:"size:128"`
	Decimals           uint8           `sql:"default:0"`
	AssetAmount        decimal.Decimal `sql:"type:decimal(40,0)"`
	AssetShares        decimal.Decimal `sql:"type:decimal(40,0)"`
	BorrowAmount       decimal.Decimal `sql:"type:decimal(40,0)"`
	BorrowShares       decimal.Decimal `sql:"type:decimal(40,0)"`
	ReserveRatio       uint64
	FeeToProtocolRate  uint64
	FlashFeeRate       uint64
	OptimalUtilization uint64
	BaseRate           uint64
	Slope1             uint64
	Slope2             uint64
	BorrowRate         uint64
	LastAccrualStep    uint64
	LastAccrualTime    int64
	CreatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP"`
}

// TableName gorm table
func (Vault) TableName() string {
	return "vaults"
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(Vault{})
		if err := tx.AutoMigrate(Vault{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type vaultStore struct {
	db *db.DB
}

// New new vault store
func New(db *db.DB) core.VaultStore {
	return &vaultStore{db: db}
}

func (s *vaultStore) Save(ctx context.Context, tx *db.DB, v *core.Vault) error {
	var row Vault
	return tx.Update().Where(Vault{Token: v.Token}).Assign(balances(v)).FirstOrCreate(&row).Error
}

func (s *vaultStore) SaveToken(ctx context.Context, tx *db.DB, t *core.SupportedToken) error {
	var row Vault
	values := map[string]interface{}{
		"feed":     t.Feed,
		"decimals": t.Decimals,
	}

	return tx.Update().Where(Vault{Token: t.Token}).Assign(values).FirstOrCreate(&row).Error
}

func (s *vaultStore) List(ctx context.Context) ([]*core.Vault, error) {
	rows, err := s.rows()
	if err != nil {
		return nil, err
	}

	vaults := make([]*core.Vault, 0, len(rows))
	for _, row := range rows {
		v, err := row.vault()
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, v)
	}

	return vaults, nil
}

func (s *vaultStore) ListTokens(ctx context.Context) ([]*core.SupportedToken, error) {
	rows, err := s.rows()
	if err != nil {
		return nil, err
	}

	tokens := make([]*core.SupportedToken, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, &core.SupportedToken{
			Token:    row.Token,
			Feed:     row.Feed,
			Decimals: row.Decimals,
		})
	}

	return tokens, nil
}

func (s *vaultStore) rows() ([]*Vault, error) {
	var rows []*Vault
	if err := s.db.View().Order("token").Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// balances column values of v, token metadata excluded
func balances(v *core.Vault) map[string]interface{} {
	info := v.RateInfo
	return map[string]interface{}{
		"asset_amount":         number.ToDecimal(v.TotalAsset.Amount, 0),
		"asset_shares":         number.ToDecimal(v.TotalAsset.Shares, 0),
		"borrow_amount":        number.ToDecimal(v.TotalBorrow.Amount, 0),
		"borrow_shares":        number.ToDecimal(v.TotalBorrow.Shares, 0),
		"reserve_ratio":        info.ReserveRatio,
		"fee_to_protocol_rate": info.FeeToProtocolRate,
		"flash_fee_rate":       info.FlashFeeRate,
		"optimal_utilization":  info.OptimalUtilization,
		"base_rate":            info.BaseRate,
		"slope1":               info.Slope1,
		"slope2":               info.Slope2,
		"borrow_rate":          info.BorrowRate,
		"last_accrual_step":    info.LastAccrualStep,
		"last_accrual_time":    info.LastAccrualTime,
	}
}

func (row *Vault) vault() (*core.Vault, error) {
	v := &core.Vault{
		Token: row.Token,
		RateInfo: core.RateInfo{
			RateParams: core.RateParams{
				ReserveRatio:       row.ReserveRatio,
				FeeToProtocolRate:  row.FeeToProtocolRate,
				FlashFeeRate:       row.FlashFeeRate,
				OptimalUtilization: row.OptimalUtilization,
				BaseRate:           row.BaseRate,
				Slope1:             row.Slope1,
				Slope2:             row.Slope2,
			},
			BorrowRate:      row.BorrowRate,
			LastAccrualStep: row.LastAccrualStep,
			LastAccrualTime: row.LastAccrualTime,
		},
	}

	var err error
	if v.TotalAsset.Amount, err = number.FromDecimal(row.AssetAmount, 0); err != nil {
		return nil, err
	}

	if v.TotalAsset.Shares, err = number.FromDecimal(row.AssetShares, 0); err != nil {
		return nil, err
	}

	if v.TotalBorrow.Amount, err = number.FromDecimal(row.BorrowAmount, 0); err != nil {
		return nil, err
	}

	if v.TotalBorrow.Shares, err = number.FromDecimal(row.BorrowShares, 0); err != nil {
		return nil, err
	}

	return v, nil
}
