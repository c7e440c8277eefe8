package position

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/number"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position row of the positions table, user is reserved in postgres so
// the owner lives in account
type Position struct {
	ID               uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT"`
	Account          string          `sql:"size:64;unique_index:idx_positions_account_token"`
	Token            string          `sql:"size:64;unique_index:idx_positions_account_token"`
	CollateralShares decimal.Decimal `sql:"type:decimal(40,0)"`
	BorrowShares     decimal.Decimal `sql:"type:decimal(40,0)"`
	CreatedAt        time.Time       `sql:"default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time       `sql:"default:CURRENT_TIMESTAMP"`
}

// TableName gorm table
func (Position) TableName() string {
	return "positions"
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(Position{})
		if err := tx.AutoMigrate(Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{db: db}
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, p *core.Position) error {
	var row Position
	values := map[string]interface{}{
		"collateral_shares": number.ToDecimal(p.CollateralShares, 0),
		"borrow_shares":     number.ToDecimal(p.BorrowShares, 0),
	}

	return tx.Update().Where(Position{Account: p.User, Token: p.Token}).Assign(values).FirstOrCreate(&row).Error
}

func (s *positionStore) List(ctx context.Context) ([]*core.Position, error) {
	var rows []*Position
	if err := s.db.View().Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	return convert(rows)
}

func (s *positionStore) ListUser(ctx context.Context, user string) ([]*core.Position, error) {
	var rows []*Position
	if err := s.db.View().Where("account=?", user).Order("token").Find(&rows).Error; err != nil {
		return nil, err
	}

	return convert(rows)
}

func convert(rows []*Position) ([]*core.Position, error) {
	positions := make([]*core.Position, 0, len(rows))
	for _, row := range rows {
		p, err := row.position()
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	return positions, nil
}

func (row *Position) position() (*core.Position, error) {
	p := core.NewPosition(row.Account, row.Token)

	var err error
	if p.CollateralShares, err = number.FromDecimal(row.CollateralShares, 0); err != nil {
		return nil, err
	}

	if p.BorrowShares, err = number.FromDecimal(row.BorrowShares, 0); err != nil {
		return nil, err
	}

	return p, nil
}
