package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores entries in the browser_state table created by the goose migrations.
type SQL struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQL(db *gorm.DB, ttl time.Duration) *SQL {
	return &SQL{db: db, ttl: ttl, now: time.Now}
}

func (s *SQL) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var row models.BrowserState
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND state_key = ?", namespace, key).
		Where("expires_at IS NULL OR expires_at > ?", s.now().UTC()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load browser state %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, namespace, key, value string) error {
	now := s.now().UTC()
	row := models.BrowserState{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: now,
	}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		row.ExpiresAt = &expires
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save browser state %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, namespace, key string) error {
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND state_key = ?", namespace, key).
		Delete(&models.BrowserState{}).Error
	if err != nil {
		return fmt.Errorf("delete browser state %s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes entries whose TTL has elapsed.
func (s *SQL) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.BrowserState{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge browser state: %w", res.Error)
	}
	return res.RowsAffected, nil
}
