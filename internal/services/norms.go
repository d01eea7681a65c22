package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"elecdesign/internal/calc"
	"elecdesign/internal/metrics"
	"elecdesign/internal/models"
	"elecdesign/internal/norms"

	"go.uber.org/zap"
)

// ErrNormsUnavailable is returned when a calculation cannot resolve its norm
// parameters.
var ErrNormsUnavailable = errors.New("norm parameters unavailable")

// Table names accepted by ListTables.
const (
	TableDemandFactors = "demand_factors"
	TableAmpacity      = "ampacity"
	TableBreakers      = "breakers"
	TableResistivity   = "resistivity"
	TableGrounding     = "grounding"
)

var tableNames = []string{TableDemandFactors, TableAmpacity, TableBreakers, TableResistivity, TableGrounding}

// TableLoader reads reference tables from a backing store.
type TableLoader interface {
	LoadTables(ctx context.Context) (*norms.Tables, error)
}

// NormsService owns the parameter cache and the active reference tables of one
// rule set.
type NormsService struct {
	provider *norms.Provider
	loader   TableLoader
	tables   atomic.Pointer[norms.Tables]
	logr     *zap.Logger
	metrics  *metrics.Recorder
}

// NewNormsService serves tables until a preload replaces them. loader may be
// nil when tables are static.
func NewNormsService(provider *norms.Provider, tables *norms.Tables, loader TableLoader, logr *zap.Logger, rec *metrics.Recorder) *NormsService {
	s := &NormsService{provider: provider, loader: loader, logr: logr, metrics: rec}
	s.tables.Store(tables)
	return s
}

// NewStaticNormsService builds a service over the seeded rule set, merged with
// the YAML file at path when path is not empty.
func NewStaticNormsService(path, version string, logr *zap.Logger, rec *metrics.Recorder) (*NormsService, error) {
	params, tables := norms.DefaultParams(), norms.DefaultTables()
	if path != "" {
		var err error
		params, tables, err = norms.LoadFile(path)
		if err != nil {
			return nil, err
		}
		logr.Info("norm tables loaded from file", zap.String("path", path))
	}
	return NewNormsService(norms.NewProvider(params, version), tables, nil, logr, rec), nil
}

// Version is the active rule-set version.
func (s *NormsService) Version() string {
	return s.provider.Version()
}

// Tables returns the current reference tables. Callers must not modify them.
func (s *NormsService) Tables() *norms.Tables {
	return s.tables.Load()
}

// ClearCache drops every cached parameter and returns how many were dropped.
func (s *NormsService) ClearCache() int {
	n := len(s.provider.CachedKeys())
	s.provider.Clear()
	s.metrics.CacheReset()
	s.logr.Info("norm cache cleared", zap.Int("keys", n), zap.String("rule_set", s.Version()))
	return n
}

// Preload resolves keys eagerly, or every key of the rule set when keys is
// empty, and reloads the reference tables when they come from a store.
func (s *NormsService) Preload(ctx context.Context, keys []string) (int, error) {
	n, err := s.provider.Preload(ctx, keys...)
	if err != nil {
		s.logr.Error("norm preload failed", zap.Error(err))
		return 0, fmt.Errorf("failed to preload norm parameters: %w", err)
	}

	if s.loader != nil {
		t, err := s.loader.LoadTables(ctx)
		if err != nil {
			s.logr.Error("reference table reload failed", zap.Error(err))
			return n, fmt.Errorf("failed to reload reference tables: %w", err)
		}
		s.tables.Store(t)
	}

	s.metrics.CacheReset()
	s.logr.Info("norm cache preloaded", zap.Int("keys", n), zap.String("rule_set", s.Version()))
	return n, nil
}

// Param returns one parameter of the active rule set.
func (s *NormsService) Param(ctx context.Context, key string) (*models.NormParam, error) {
	v, err := s.provider.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &models.NormParam{RuleSet: s.Version(), Key: key, Value: v}, nil
}

// ListTables returns the named reference tables, or all of them when names is
// empty.
func (s *NormsService) ListTables(names []string) (map[string]any, error) {
	if len(names) == 0 {
		names = tableNames
	}

	t := s.Tables()
	out := make(map[string]any, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case TableDemandFactors:
			out[TableDemandFactors] = t.DemandFactors
		case TableAmpacity:
			out[TableAmpacity] = t.Ampacity
		case TableBreakers:
			out[TableBreakers] = t.Breakers
		case TableResistivity:
			out[TableResistivity] = t.Resistivity
		case TableGrounding:
			out[TableGrounding] = t.Grounding
		case "":
		default:
			return nil, fmt.Errorf("%w: unknown table %q", calc.ErrInvalidInput, name)
		}
	}
	return out, nil
}

// designParams are the norm parameters one calculation runs with.
type designParams struct {
	rooms          calc.RoomParams
	maxUtilization float64
	continuous     float64
	branchLimit    float64
	totalLimit     float64
	warningBand    float64
	defaultLength  float64
	material       string
}

func (s *NormsService) resolve(ctx context.Context) (designParams, error) {
	var p designParams
	numbers := []struct {
		key string
		dst *float64
	}{
		{norms.KeyLightingVAPerM2, &p.rooms.LightingVAPerM2},
		{norms.KeyDefaultPowerFactor, &p.rooms.DefaultPowerFactor},
		{norms.KeyMaxCircuitUtilization, &p.maxUtilization},
		{norms.KeyContinuousLoadFactor, &p.continuous},
		{norms.KeyBranchDropMaxPct, &p.branchLimit},
		{norms.KeyTotalDropMaxPct, &p.totalLimit},
		{norms.KeyDropWarningBandPct, &p.warningBand},
		{norms.KeyDefaultBranchLengthM, &p.defaultLength},
	}
	for _, n := range numbers {
		v, err := s.provider.GetAsNumber(ctx, n.key)
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrNormsUnavailable, err)
		}
		*n.dst = v
	}
	if p.maxUtilization <= 0 || p.maxUtilization > 1 {
		return p, fmt.Errorf("%w: %s must be within (0, 1], got %g",
			ErrNormsUnavailable, norms.KeyMaxCircuitUtilization, p.maxUtilization)
	}

	material, err := s.provider.StringOr(ctx, norms.KeyDefaultConductorMaterial, norms.Copper)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrNormsUnavailable, err)
	}
	p.material = material
	return p, nil
}
