package norms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrNotFound is returned when a rule set does not define a key.
var ErrNotFound = errors.New("norm parameter not found")

// Source resolves normative constants of a single rule set.
type Source interface {
	Lookup(ctx context.Context, key string) (string, error)
}

// Lister is implemented by sources that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Provider caches lookups against a Source. One Provider serves one rule-set
// version; build a new one (or Clear it) when the rule set changes.
type Provider struct {
	src     Source
	version string

	mu    sync.RWMutex
	cache map[string]string
}

// NewProvider wraps src with a lazily populated cache.
func NewProvider(src Source, version string) *Provider {
	return &Provider{
		src:     src,
		version: version,
		cache:   make(map[string]string),
	}
}

// Version returns the rule-set version the provider was built for.
func (p *Provider) Version() string {
	return p.version
}

// Get returns the raw value for key, populating the cache on first use.
func (p *Provider) Get(ctx context.Context, key string) (string, error) {
	p.mu.RLock()
	v, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return v, nil
	}

	// Lookups happen outside the lock; concurrent writers store the same value.
	v, err := p.src.Lookup(ctx, key)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[key] = v
	p.mu.Unlock()
	return v, nil
}

// GetAsNumber parses the value for key as a float.
func (p *Provider) GetAsNumber(ctx context.Context, key string) (float64, error) {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("norm parameter %q is not a number: %w", key, err)
	}
	return f, nil
}

// GetAsInteger parses the value for key as an integer.
func (p *Provider) GetAsInteger(ctx context.Context, key string) (int, error) {
	raw, err := p.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("norm parameter %q is not an integer: %w", key, err)
	}
	return i, nil
}

// NumberOr is GetAsNumber with a fallback for keys the rule set does not define.
// Any other failure is returned unchanged.
func (p *Provider) NumberOr(ctx context.Context, key string, fallback float64) (float64, error) {
	v, err := p.GetAsNumber(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return v, err
}

// StringOr is Get with a fallback for undefined keys.
func (p *Provider) StringOr(ctx context.Context, key, fallback string) (string, error) {
	v, err := p.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return v, err
}

// Clear drops every cached value.
func (p *Provider) Clear() {
	p.mu.Lock()
	p.cache = make(map[string]string)
	p.mu.Unlock()
}

// Preload clears the cache and resolves keys eagerly. With no keys, every key
// the source can list is loaded.
func (p *Provider) Preload(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		lister, ok := p.src.(Lister)
		if !ok {
			return 0, errors.New("norm source cannot enumerate keys")
		}
		var err error
		keys, err = lister.Keys(ctx)
		if err != nil {
			return 0, fmt.Errorf("list norm keys: %w", err)
		}
	}

	fresh := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := p.src.Lookup(ctx, k)
		if err != nil {
			return 0, fmt.Errorf("preload %q: %w", k, err)
		}
		fresh[k] = v
	}

	p.mu.Lock()
	p.cache = fresh
	p.mu.Unlock()
	return len(fresh), nil
}

// CachedKeys returns the currently cached keys in sorted order.
func (p *Provider) CachedKeys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.cache))
	for k := range p.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StaticSource serves parameters from an in-memory map.
type StaticSource map[string]string

// Lookup implements Source.
func (s StaticSource) Lookup(_ context.Context, key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

// Keys implements Lister.
func (s StaticSource) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
