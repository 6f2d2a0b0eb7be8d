package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"gorm.io/gorm/clause"
)

// LevelDefinition returns the definition of a level, or nil when it was never seeded.
func (s *Store) LevelDefinition(ctx context.Context, level int) (*model.LevelDefinition, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("level_definition", err, start)
	}()

	var defs []model.LevelDefinition
	err = s.db.WithContext(ctx).Where("level_number = ?", level).Limit(1).Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("query level definition: %w", err)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	return &defs[0], nil
}

func (s *Store) LevelDefinitions(ctx context.Context) ([]model.LevelDefinition, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("level_definitions", err, start)
	}()

	var defs []model.LevelDefinition
	err = s.db.WithContext(ctx).Order("level_number").Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("query level definitions: %w", err)
	}
	return defs, nil
}

// SeedLevelDefinitions inserts missing levels and leaves existing rows untouched.
// It returns the number of inserted rows.
func (s *Store) SeedLevelDefinitions(ctx context.Context, levels []model.LevelDefinition) (int, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("seed_level_definitions", err, start)
	}()

	if len(levels) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&levels)
	if err = res.Error; err != nil {
		return 0, fmt.Errorf("seed level definitions: %w", err)
	}
	return int(res.RowsAffected), nil
}
