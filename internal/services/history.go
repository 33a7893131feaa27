package services

import (
	"context"
	"time"

	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/store"
)

const defaultFlakyWindow = 10

// HistoryService reads stored runs.
type HistoryService struct {
	store *store.Store
}

func NewHistoryService(st *store.Store) *HistoryService {
	return &HistoryService{store: st}
}

type HistoryParams struct {
	Targets []string
	Since   time.Time
	Limit   uint64
	Offset  uint64
}

type HistoryResult struct {
	Runs  []models.Run
	Total int
}

func (s *HistoryService) List(ctx context.Context, params HistoryParams) (*HistoryResult, error) {
	runs, err := s.store.Runs().List(ctx, s.buildListOptions(params)...)
	if err != nil {
		return nil, err
	}

	// total without pagination
	total, err := s.store.Runs().Count(ctx, s.buildListOptions(HistoryParams{
		Targets: params.Targets,
		Since:   params.Since,
	})...)
	if err != nil {
		return nil, err
	}

	return &HistoryResult{Runs: runs, Total: total}, nil
}

// Get returns one run with its results. The id "latest" resolves to the
// newest run of any target.
func (s *HistoryService) Get(ctx context.Context, id string) (*models.Run, error) {
	if id == "latest" {
		return s.store.Runs().Latest(ctx, "")
	}
	return s.store.Runs().Get(ctx, id)
}

func (s *HistoryService) Delete(ctx context.Context, id string) error {
	return s.store.Runs().Delete(ctx, id)
}

// Flaky returns the checks that flipped between pass and fail over the last
// window runs of target (all targets when empty).
func (s *HistoryService) Flaky(ctx context.Context, window int, target string) ([]models.FlakyCheck, error) {
	if window <= 0 {
		window = defaultFlakyWindow
	}
	return s.store.Checks().Flaky(ctx, window, target)
}

func (s *HistoryService) buildListOptions(params HistoryParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Targets) > 0 {
		opts = append(opts, store.ByTarget(params.Targets...))
	}
	if !params.Since.IsZero() {
		opts = append(opts, store.StartedAfter(params.Since))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
