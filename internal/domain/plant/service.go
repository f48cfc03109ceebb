package plant

import (
	"context"
	"strings"

	"log/slog"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

const (
	defaultSearchLimit    = 50
	defaultMaxQueryLength = 64
	defaultMaxTags        = 10
)

// Service exposes the plant catalog.
type Service interface {
	Search(ctx context.Context, req SearchRequest) ([]Plant, error)
	Get(ctx context.Context, id string) (Plant, error)
	SeedIfEmpty(ctx context.Context) (int, error)
}

type service struct {
	cfg    Config
	repo   Repository
	seed   SeedSource
	logger *slog.Logger
}

// NewService wires up the catalog domain. seed may be nil when seeding is disabled.
func NewService(cfg Config, repo Repository, seed SeedSource, logger *slog.Logger) Service {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = defaultSearchLimit
	}
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = defaultMaxQueryLength
	}
	if cfg.MaxTags <= 0 {
		cfg.MaxTags = defaultMaxTags
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		seed:   seed,
		logger: logger.With("component", "plant.service"),
	}
}

func (s *service) Search(ctx context.Context, req SearchRequest) ([]Plant, error) {
	if len(req.Query) > s.cfg.MaxQueryLength {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "query too long", nil)
	}
	filter := Filter{Query: strings.TrimSpace(req.Query)}
	if raw := strings.TrimSpace(req.Space); raw != "" {
		space, ok := ParseSpace(raw)
		if !ok {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid space value", nil)
		}
		filter.Space = space
	}
	filter.Tags = SplitTerms(req.Tags, s.cfg.MaxTags)

	plants, err := s.repo.Find(ctx, filter, s.cfg.SearchLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStoreError, "plant search failed", err)
	}
	s.logger.Debug("plant search", "query", filter.Query, "space", filter.Space, "tags", len(filter.Tags), "results", len(plants))
	if plants == nil {
		plants = []Plant{}
	}
	return plants, nil
}

func (s *service) Get(ctx context.Context, id string) (Plant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plant{}, apperrors.Wrap(apperrors.CodeInvalidInput, "plant id is required", nil)
	}
	p, found, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return Plant{}, apperrors.Wrap(apperrors.CodeStoreError, "plant lookup failed", err)
	}
	if !found {
		return Plant{}, apperrors.Wrap(apperrors.CodeNotFound, "plant not found", nil)
	}
	return p, nil
}

// SplitTerms splits a comma separated list, trims each term, drops empties and keeps the first max.
func SplitTerms(raw string, max int) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		term := strings.TrimSpace(part)
		if term == "" {
			continue
		}
		out = append(out, term)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
