package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/database"
	"github.com/makerlink/server/internal/logger"
	"github.com/makerlink/server/internal/models"
	"github.com/makerlink/server/pkg/cache"
	"github.com/makerlink/server/pkg/textnorm"
)

// SearchParams carries the query-string inputs of the search endpoint.
type SearchParams struct {
	Query          string
	Lang           string // "auto"면 Accept-Language에서 감지
	Type           string // all | resource | service
	Limit          int
	AcceptLanguage string
}

// SearchResponse mirrors the search contract: the raw and normalized
// query, the detected language and the per-table result sets.
type SearchResponse struct {
	Query           string            `json:"query"`
	Language        string            `json:"language"`
	NormalizedQuery string            `json:"normalizedQuery"`
	Resources       []models.Resource `json:"resources"`
	Services        []models.Service  `json:"services"`
	TotalCount      int               `json:"totalCount"`
}

// SearchService normalizes a free-text query per language and filters
// listing tables with the multi-term predicate.
type SearchService struct {
	db       *database.DB
	cache    *cache.Cache
	cfg      *config.Config
	detector textnorm.Detector
	log      *zap.Logger
}

func NewSearchService(db *database.DB, c *cache.Cache, cfg *config.Config) *SearchService {
	return &SearchService{
		db:       db,
		cache:    c,
		cfg:      cfg,
		detector: textnorm.Detector{Fallback: cfg.DefaultLanguage},
		log:      logger.GetLogger("search"),
	}
}

// Search runs the pipeline: detect language, normalize, predicate-filter
// each requested table, cache per table.
func (s *SearchService) Search(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	if p.Query == "" {
		return nil, &ValidationError{Field: "q", Reason: "must not be empty"}
	}

	switch p.Type {
	case "", "all", "resource", "service":
	default:
		return nil, &ValidationError{Field: "type", Reason: "must be all, resource or service"}
	}
	if p.Type == "" {
		p.Type = "all"
	}

	if p.Limit <= 0 {
		p.Limit = s.cfg.SearchResultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	lang := p.Lang
	if lang == "" || lang == "auto" {
		lang = s.detector.Detect(p.AcceptLanguage)
	}

	normalized := textnorm.Normalize(p.Query, lang)
	pred := BuildPredicate(normalized)

	resp := &SearchResponse{
		Query:           p.Query,
		Language:        lang,
		NormalizedQuery: normalized,
		Resources:       []models.Resource{},
		Services:        []models.Service{},
	}

	if p.Type == "all" || p.Type == "service" {
		services, err := s.searchServices(ctx, pred, lang, normalized, p.Limit)
		if err != nil {
			return nil, err
		}
		resp.Services = services
	}

	if p.Type == "all" || p.Type == "resource" {
		resources, err := s.searchResources(ctx, pred, lang, normalized, p.Limit)
		if err != nil {
			return nil, err
		}
		resp.Resources = resources
	}

	resp.TotalCount = len(resp.Resources) + len(resp.Services)

	s.log.Info("search served",
		zap.String("lang", lang),
		zap.String("normalized_query", normalized),
		zap.Int("total", resp.TotalCount),
	)
	return resp, nil
}

func (s *SearchService) searchServices(ctx context.Context, pred Predicate, lang, normalized string, limit int) ([]models.Service, error) {
	key := fmt.Sprintf("service:search:%s:%s:%d", lang, normalized, limit)

	v, err := s.cache.GetOrCompute(key, s.cfg.CacheTTLDefault, func() (interface{}, error) {
		var candidates []models.Service
		err := s.db.WithContext(ctx).
			Where("status = ?", "active").
			Order("created_at DESC").
			Limit(s.cfg.CandidateFetchCap).
			Find(&candidates).Error
		if err != nil {
			return nil, &UpstreamError{Dependency: "listing store", Err: err}
		}

		matched := make([]models.Service, 0, limit)
		for i := range candidates {
			text := textnorm.Normalize(candidates[i].SearchableText(), lang)
			category := textnorm.Normalize(candidates[i].Type, lang)
			if pred.Match(text, category) {
				matched = append(matched, candidates[i])
				if len(matched) >= limit {
					break
				}
			}
		}
		return matched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Service), nil
}

func (s *SearchService) searchResources(ctx context.Context, pred Predicate, lang, normalized string, limit int) ([]models.Resource, error) {
	key := fmt.Sprintf("resource:search:%s:%s:%d", lang, normalized, limit)

	v, err := s.cache.GetOrCompute(key, s.cfg.CacheTTLDefault, func() (interface{}, error) {
		var candidates []models.Resource
		err := s.db.WithContext(ctx).
			Where("status = ?", "active").
			Order("created_at DESC").
			Limit(s.cfg.CandidateFetchCap).
			Find(&candidates).Error
		if err != nil {
			return nil, &UpstreamError{Dependency: "listing store", Err: err}
		}

		matched := make([]models.Resource, 0, limit)
		for i := range candidates {
			text := textnorm.Normalize(candidates[i].SearchableText(), lang)
			category := textnorm.Normalize(candidates[i].Category, lang)
			if pred.Match(text, category) {
				matched = append(matched, candidates[i])
				if len(matched) >= limit {
					break
				}
			}
		}
		return matched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Resource), nil
}
