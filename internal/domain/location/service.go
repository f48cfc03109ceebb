package location

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

// Service detects the location of a client IP.
type Service interface {
	Detect(ctx context.Context, ip string) (Location, error)
}

type service struct {
	detector Detector
	cache    Cache
	logger   *slog.Logger
}

// NewService wires the detector with an optional cache.
func NewService(detector Detector, cache Cache, logger *slog.Logger) Service {
	return &service{
		detector: detector,
		cache:    cache,
		logger:   logger.With("component", "location.service"),
	}
}

func (s *service) Detect(ctx context.Context, ip string) (Location, error) {
	ip = strings.TrimSpace(ip)
	cacheable := ip != "" && s.cache != nil

	if cacheable {
		loc, ok, err := s.cache.Get(ctx, ip)
		if err != nil {
			s.logger.Warn("location cache read failed", "ip", ip, "error", err)
		} else if ok {
			return loc, nil
		}
	}

	loc, err := s.detector.Lookup(ctx, ip)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeUpstreamError, "location detection failed", err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, ip, loc); err != nil {
			s.logger.Warn("location cache write failed", "ip", ip, "error", err)
		}
	}
	return loc, nil
}
