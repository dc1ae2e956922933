package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/database"
	"github.com/makerlink/server/internal/logger"
	"github.com/makerlink/server/internal/models"
	"github.com/makerlink/server/pkg/cache"
)

// ListingService owns service/resource listings. Every mutation
// invalidates the cache entries derived from the listing's table, so a
// stale ranking is never served past a data change.
type ListingService struct {
	db    *database.DB
	cache *cache.Cache
	cfg   *config.Config
	log   *zap.Logger
}

func NewListingService(db *database.DB, c *cache.Cache, cfg *config.Config) *ListingService {
	return &ListingService{db: db, cache: c, cfg: cfg, log: logger.GetLogger("listing")}
}

type ListingFilter struct {
	Page  int
	Limit int
	Type  string
	Query string
}

type ServiceListResponse struct {
	Items      []models.Service `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ListServices retrieves service listings with filtering and pagination.
func (s *ListingService) ListServices(ctx context.Context, filter *ListingFilter) (*ServiceListResponse, error) {
	var items []models.Service
	var total int64

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.SearchResultLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Service{}).
		Preload("Provider").
		Where("status = ?", "active")

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR tags ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (filter.Page - 1) * filter.Limit
	query = query.Order("created_at DESC").Offset(offset).Limit(filter.Limit)

	if err := query.Find(&items).Error; err != nil {
		return nil, &UpstreamError{Dependency: "listing store", Err: err}
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		totalPages++
	}

	return &ServiceListResponse{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetServiceByID retrieves a service listing with its provider.
func (s *ListingService) GetServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).Preload("Provider").First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// CreateService stores a new listing and drops every cached result
// derived from the services table.
func (s *ListingService) CreateService(ctx context.Context, svc *models.Service) error {
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return err
	}
	s.invalidate("service:")
	return nil
}

// UpdateService saves the listing and invalidates derived cache entries.
func (s *ListingService) UpdateService(ctx context.Context, svc *models.Service) error {
	if err := s.db.WithContext(ctx).Save(svc).Error; err != nil {
		return err
	}
	s.invalidate("service:")
	return nil
}

// DeleteService soft-deletes the listing and invalidates derived cache
// entries.
func (s *ListingService) DeleteService(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Service{}, id)
	if result.Error != nil {
		return result.Error
	}
	s.invalidate("service:")
	return nil
}

// GetResourceByID retrieves a resource listing.
func (s *ListingService) GetResourceByID(ctx context.Context, id uint) (*models.Resource, error) {
	var res models.Resource
	if err := s.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateResource stores a new resource listing and drops cached results
// derived from the resources table.
func (s *ListingService) CreateResource(ctx context.Context, res *models.Resource) error {
	if err := s.db.WithContext(ctx).Create(res).Error; err != nil {
		return err
	}
	s.invalidate("resource:")
	return nil
}

// UpdateResource saves the resource and invalidates derived cache entries.
func (s *ListingService) UpdateResource(ctx context.Context, res *models.Resource) error {
	if err := s.db.WithContext(ctx).Save(res).Error; err != nil {
		return err
	}
	s.invalidate("resource:")
	return nil
}

// DeleteResource soft-deletes the resource and invalidates derived cache
// entries.
func (s *ListingService) DeleteResource(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if result.Error != nil {
		return result.Error
	}
	s.invalidate("resource:")
	return nil
}

func (s *ListingService) invalidate(prefix string) {
	removed := s.cache.InvalidatePrefix(prefix)
	if removed > 0 {
		s.log.Info("cache invalidated on listing mutation",
			zap.String("prefix", prefix),
			zap.Int("removed", removed),
		)
	}
}
