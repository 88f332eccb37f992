package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
)

// SearchResult is the projection of every helper whose rate is within the
// limit. NoMatch is set when Helpers is empty; it is a normal outcome, not
// an error.
type SearchResult struct {
	Helpers []model.HelperSummary `json:"helpers"`
	NoMatch bool                  `json:"noMatch"`
}

type SearchService struct {
	repo   repository.HelperRepository
	logger *slog.Logger
}

func NewSearchService(repo repository.HelperRepository, logger *slog.Logger) *SearchService {
	return &SearchService{repo: repo, logger: logger}
}

// Search returns helpers with rate <= maxRate in table order.
// math.Inf(1) matches every row.
func (s *SearchService) Search(ctx context.Context, maxRate float64) (*SearchResult, error) {
	if math.IsNaN(maxRate) || maxRate < 0 {
		return nil, apperror.ValidationFailed("max_rate", "max rate must be a number of at least 0")
	}

	records, err := s.repo.QueryAll(ctx)
	if err != nil {
		s.logger.Error("failed to read helpers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("searching helpers: %w", err)
	}

	helpers := make([]model.HelperSummary, 0, len(records))
	for _, r := range records {
		if r.Rate <= maxRate {
			helpers = append(helpers, r.Summary())
		}
	}

	s.logger.Debug("helpers searched",
		slog.Float64("max_rate", maxRate),
		slog.Int("matches", len(helpers)),
	)
	return &SearchResult{Helpers: helpers, NoMatch: len(helpers) == 0}, nil
}
