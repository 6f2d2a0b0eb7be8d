package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"gorm.io/gorm/clause"
)

func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("setting", err, start)
	}()

	var rows []model.Setting
	if err = s.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return "", false, fmt.Errorf("query setting %s: %w", key, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("put_setting", err, start)
	}()

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.Setting{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}
