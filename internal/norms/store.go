package norms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"elecdesign/internal/models"

	"github.com/uptrace/bun"
)

// DBSource reads the active rule set from Postgres.
type DBSource struct {
	db      *bun.DB
	ruleSet string
}

func NewDBSource(db *bun.DB, ruleSet string) *DBSource {
	return &DBSource{db: db, ruleSet: ruleSet}
}

// Lookup implements Source.
func (s *DBSource) Lookup(ctx context.Context, key string) (string, error) {
	var p models.NormParam
	err := s.db.NewSelect().
		Model(&p).
		Where("rule_set = ?", s.ruleSet).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s (rule set %s)", ErrNotFound, key, s.ruleSet)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query norm parameter %s: %w", key, err)
	}
	return p.Value, nil
}

// Keys implements Lister.
func (s *DBSource) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.NewSelect().
		Model((*models.NormParam)(nil)).
		Column("key").
		Where("rule_set = ?", s.ruleSet).
		Order("key ASC").
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("failed to list norm parameters: %w", err)
	}
	return keys, nil
}

// LoadTables reads every reference table.
func (s *DBSource) LoadTables(ctx context.Context) (*Tables, error) {
	t := &Tables{}

	if err := s.db.NewSelect().Model(&t.DemandFactors).Order("category", "min_va").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query demand factors: %w", err)
	}
	if err := s.db.NewSelect().Model(&t.Ampacity).Order("material", "ampacity_a").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query conductor ampacity: %w", err)
	}
	if err := s.db.NewSelect().Model(&t.Breakers).Order("amperage_a", "poles").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query breakers: %w", err)
	}
	if err := s.db.NewSelect().Model(&t.Resistivity).Order("material", "section_mm2").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query conductor resistivity: %w", err)
	}
	if err := s.db.NewSelect().Model(&t.Grounding).Order("max_breaker_a").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to query grounding rules: %w", err)
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference tables in database: %w", err)
	}
	return t, nil
}
