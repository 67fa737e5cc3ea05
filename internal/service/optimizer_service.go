package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/meio-shop/backend-go/internal/cache"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/rs/zerolog/log"
)

// RunStore persists finished runs. Optional: a nil store skips
// persistence entirely.
type RunStore interface {
	SaveRun(ctx context.Context, joinKey string, params safetystock.Parameters, results []safetystock.Result) (int64, error)
}

// OptimizerService owns the per-session dataset registry and the
// last-used parameters, and drives the pipeline: readiness check, key
// resolution, join, statistics derivation, optimization. Each run reads
// an immutable snapshot, so results are reproducible from (datasets,
// parameters).
type OptimizerService struct {
	mu       sync.Mutex
	registry *dataset.Registry
	params   safetystock.Parameters
	deriver  *safetystock.Deriver

	cache cache.ResultCache
	runs  RunStore

	joinKey string
	results []safetystock.Result
}

// NewOptimizerService wires a service with defaults. cacheImpl may be
// nil (no caching); runs may be nil (no persistence).
func NewOptimizerService(defaults safetystock.Parameters, cacheImpl cache.ResultCache, runs RunStore) *OptimizerService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopResultCache()
	}
	return &OptimizerService{
		registry: dataset.NewRegistry(),
		params:   defaults,
		deriver:  safetystock.NewDeriver(),
		cache:    cacheImpl,
		runs:     runs,
	}
}

// LoadDataset parses a CSV source into the named role.
func (s *OptimizerService) LoadDataset(role dataset.Role, r io.Reader) error {
	t, err := dataset.ReadTable(r)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", role, err)
	}
	s.mu.Lock()
	s.registry.Set(role, t)
	s.mu.Unlock()
	log.Info().Str("role", string(role)).Int("rows", t.Len()).Msg("dataset loaded")
	return nil
}

// UseRegistry replaces the whole registry, e.g. after a baseline load.
func (s *OptimizerService) UseRegistry(r *dataset.Registry) {
	s.mu.Lock()
	s.registry = r
	s.mu.Unlock()
}

// Dataset returns the loaded table for a role, or nil.
func (s *OptimizerService) Dataset(role dataset.Role) *dataset.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(role)
}

// Missing lists the roles still unpopulated.
func (s *OptimizerService) Missing() []dataset.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Missing()
}

// SetParameters stores the session default parameter set. Range
// enforcement happens at the transport boundary before this call.
func (s *OptimizerService) SetParameters(p safetystock.Parameters) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
}

// Parameters returns the current session default parameter set.
func (s *OptimizerService) Parameters() safetystock.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Run executes one synchronous optimization over the loaded datasets
// with the session parameters. Both fatal conditions (incomplete
// dataset set, missing join key) abort before any result is produced.
func (s *OptimizerService) Run(ctx context.Context) ([]safetystock.Result, error) {
	s.mu.Lock()
	tables := s.registry.Snapshot()
	params := s.params
	readyErr := s.registry.Ready()
	s.mu.Unlock()

	if readyErr != nil {
		return nil, readyErr
	}

	sales := tables[dataset.RoleSalesHistory]
	key, err := safetystock.ResolveJoinKey(sales.Columns)
	if err != nil {
		return nil, err
	}

	fingerprint := runFingerprint(tables, params)
	if cached, ok, err := s.cache.Get(ctx, fingerprint); err == nil && ok {
		log.Debug().Str("fingerprint", fingerprint).Msg("optimization served from cache")
		s.storeRun(key, cached)
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("result cache get failed")
	}

	working := safetystock.Join(sales, safetystock.Sources(tables), key)
	_, stats := s.deriver.Derive(working, key)
	results := safetystock.Optimize(stats, params)

	if err := s.cache.Set(ctx, fingerprint, results); err != nil {
		log.Warn().Err(err).Msg("result cache set failed")
	}

	if s.runs != nil {
		if runID, err := s.runs.SaveRun(ctx, key, params, results); err != nil {
			log.Warn().Err(err).Msg("failed to persist optimization run")
		} else {
			log.Info().Int64("run_id", runID).Int("records", len(results)).Msg("optimization run persisted")
		}
	}

	s.storeRun(key, results)
	return results, nil
}

// Filter applies the key-substring and minimum-threshold predicates to
// the last run's results.
func (s *OptimizerService) Filter(keySubstring string, minSS float64) []safetystock.Result {
	s.mu.Lock()
	results := s.results
	s.mu.Unlock()
	return safetystock.FilterResults(results, keySubstring, minSS)
}

// ExportCSV writes filtered results from the last run as CSV.
func (s *OptimizerService) ExportCSV(w io.Writer, keySubstring string, minSS float64) error {
	s.mu.Lock()
	results := s.results
	key := s.joinKey
	s.mu.Unlock()
	if key == "" {
		key = safetystock.JoinKeyAliases[0]
	}
	return safetystock.WriteCSV(w, key, safetystock.FilterResults(results, keySubstring, minSS))
}

// JoinKey returns the key resolved by the last run, empty before any.
func (s *OptimizerService) JoinKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinKey
}

func (s *OptimizerService) storeRun(key string, results []safetystock.Result) {
	s.mu.Lock()
	s.joinKey = key
	s.results = results
	s.mu.Unlock()
}

// runFingerprint hashes the dataset contents and parameters so
// identical inputs map to the same cache entry.
func runFingerprint(tables map[dataset.Role]*dataset.Table, params safetystock.Parameters) string {
	h := sha256.New()
	fmt.Fprintf(h, "%v\n", params)
	for _, role := range dataset.Roles {
		t := tables[role]
		if t == nil {
			continue
		}
		fmt.Fprintf(h, "%s\n", role)
		hashCells(h, t.Columns)
		for _, row := range t.Rows {
			hashCells(h, row)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashCells length-prefixes every cell so boundaries survive the
// encoding: {"a b", "c"} and {"a", "b c"} hash differently.
func hashCells(w io.Writer, cells []string) {
	for _, cell := range cells {
		fmt.Fprintf(w, "%d:%s", len(cell), cell)
	}
	io.WriteString(w, "\n")
}
