package event

import (
	"context"

	"lendpool/core"

	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.EventLog{})
		if err := tx.AutoMigrate(core.EventLog{}).Error; err != nil {
			return err
		}

		return nil
	})
}

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) Create(ctx context.Context, tx *db.DB, event *core.EventLog) error {
	return tx.Update().Where("trace_id=?", event.TraceID).FirstOrCreate(event).Error
}

func (s *eventStore) List(ctx context.Context, fromID int64, limit int) ([]*core.EventLog, error) {
	if limit <= 0 {
		limit = 500
	}

	var events []*core.EventLog
	if err := s.db.View().Where("id > ?", fromID).Order("id ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
