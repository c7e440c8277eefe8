package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
)

// VaultStore persisted vaults and the registry entry of their tokens
type VaultStore interface {
	Save(ctx context.Context, tx *db.DB, vault *Vault) error
	SaveToken(ctx context.Context, tx *db.DB, token *SupportedToken) error
	List(ctx context.Context) ([]*Vault, error)
	ListTokens(ctx context.Context) ([]*SupportedToken, error)
}

// PositionStore persisted positions
type PositionStore interface {
	Save(ctx context.Context, tx *db.DB, position *Position) error
	List(ctx context.Context) ([]*Position, error)
	ListUser(ctx context.Context, user string) ([]*Position, error)
}

// EventLog a stored event
type EventLog struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string         `sql:"size:36;unique_index:idx_events_trace_id" json:"trace_id"`
	Name      string         `sql:"size:32;index:idx_events_name" json:"name"`
	Token     string         `sql:"size:64;index:idx_events_token" json:"token"`
	Data      types.JSONText `sql:"type:TEXT" json:"data"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// EventStore append only event log
type EventStore interface {
	Create(ctx context.Context, tx *db.DB, event *EventLog) error
	List(ctx context.Context, fromID int64, limit int) ([]*EventLog, error)
}
