package services

import (
	"context"
	"crypto/sha1"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/database"
	"github.com/makerlink/server/internal/logger"
	"github.com/makerlink/server/internal/models"
	"github.com/makerlink/server/pkg/ai"
	"github.com/makerlink/server/pkg/cache"
	"github.com/makerlink/server/pkg/geo"
	"github.com/makerlink/server/pkg/textnorm"
)

// MatchRequest is the validated input of the match pipeline.
type MatchRequest struct {
	ProjectDescription string     `json:"projectDescription"`
	Skills             []string   `json:"skills,omitempty"`
	Budget             *float64   `json:"budget,omitempty"`
	Urgency            string     `json:"urgency,omitempty"`
	Location           *geo.Point `json:"location,omitempty"`
	MaxDistance        *float64   `json:"maxDistance,omitempty"`
	RemoteOnly         bool       `json:"remoteOnly,omitempty"`
}

// Validate checks shape and bounds, applying field defaults. The first
// violation rejects the request before any filtering runs.
func (r *MatchRequest) Validate(cfg *config.Config) error {
	descLen := utf8.RuneCountInString(strings.TrimSpace(r.ProjectDescription))
	if descLen < 10 || descLen > 1000 {
		return &ValidationError{Field: "projectDescription", Reason: "must be 10-1000 characters"}
	}

	if r.Urgency == "" {
		r.Urgency = "medium"
	}
	if _, ok := urgencyLevels[r.Urgency]; !ok {
		return &ValidationError{Field: "urgency", Reason: "must be low, medium or high"}
	}

	if r.Budget != nil {
		b := *r.Budget
		if math.IsNaN(b) || math.IsInf(b, 0) || b <= 0 {
			return &ValidationError{Field: "budget", Reason: "must be a positive finite number"}
		}
	}

	if r.Location != nil && !geo.Valid(*r.Location) {
		return &ValidationError{Field: "location", Reason: "coordinates must be finite and in range"}
	}

	if r.MaxDistance == nil {
		d := cfg.MaxDistanceKm
		r.MaxDistance = &d
	}
	if math.IsNaN(*r.MaxDistance) || math.IsInf(*r.MaxDistance, 0) || *r.MaxDistance < 0 {
		return &ValidationError{Field: "maxDistance", Reason: "must be a non-negative finite number"}
	}

	skills := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	r.Skills = skills

	return nil
}

// MatchResult is one ranked candidate, enriched with the listing and the
// sanitized provider profile.
type MatchResult struct {
	CandidateID   uint                    `json:"candidateId"`
	Score         int                     `json:"score"`
	DistanceKm    *float64                `json:"distanceKm,omitempty"`
	IsRemote      bool                    `json:"isRemote"`
	MatchedSkills []string                `json:"matchedSkills"`
	Service       *models.Service         `json:"service"`
	Provider      *models.ProviderProfile `json:"provider,omitempty"`
}

// MatchCriteria echoes the normalized request back to the caller.
type MatchCriteria struct {
	ProjectDescription string     `json:"projectDescription"`
	Skills             []string   `json:"skills"`
	Budget             *float64   `json:"budget,omitempty"`
	Urgency            string     `json:"urgency"`
	Location           *geo.Point `json:"location,omitempty"`
	MaxDistanceKm      float64    `json:"maxDistanceKm"`
	RemoteOnly         bool       `json:"remoteOnly"`
}

// MatchResponse is the ranked result set. AIRecommendation is null
// whenever the summarizer is unavailable, unauthorized or times out.
type MatchResponse struct {
	Count            int           `json:"count"`
	Engineers        []MatchResult `json:"engineers"`
	Criteria         MatchCriteria `json:"criteria"`
	AIRecommendation *string       `json:"aiRecommendation"`
}

// MatchService runs the end-to-end match pipeline: validate, fetch,
// geo-filter, score, rank, cache, then best-effort AI enrichment.
type MatchService struct {
	db         *database.DB
	cache      *cache.Cache
	cfg        *config.Config
	scorer     *Scorer
	summarizer ai.Summarizer
	log        *zap.Logger
}

func NewMatchService(db *database.DB, c *cache.Cache, cfg *config.Config, summarizer ai.Summarizer) *MatchService {
	return &MatchService{
		db:         db,
		cache:      c,
		cfg:        cfg,
		scorer:     NewScorer(cfg.Scoring),
		summarizer: summarizer,
		log:        logger.GetLogger("match"),
	}
}

// Match executes the pipeline. Authorized callers with non-empty results
// additionally receive a best-effort AI recommendation.
func (s *MatchService) Match(ctx context.Context, req *MatchRequest, authorized bool) (*MatchResponse, error) {
	if err := req.Validate(s.cfg); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	key := s.cacheKey(req)

	cached, err := s.cache.GetOrCompute(key, s.cfg.CacheTTLShort, func() (interface{}, error) {
		return s.compute(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	// 캐시 항목은 공유되므로 응답은 복사본으로 만든다
	resp := *cached.(*MatchResponse)
	resp.AIRecommendation = nil

	s.log.Info("match request served",
		zap.String("request_id", requestID),
		zap.Int("count", resp.Count),
		zap.Bool("authorized", authorized),
	)

	if authorized && resp.Count > 0 && s.summarizer != nil {
		if summary := s.recommend(ctx, req, resp.Engineers); summary != "" {
			resp.AIRecommendation = &summary
		}
	}

	return &resp, nil
}

// compute runs the cacheable part of the pipeline (everything except the
// per-caller AI enrichment).
func (s *MatchService) compute(ctx context.Context, req *MatchRequest) (*MatchResponse, error) {
	geoScoped := req.Location != nil && !req.RemoteOnly

	query := s.db.WithContext(ctx).Model(&models.Service{}).
		Preload("Provider").
		Where("status = ?", "active").
		Where("type = ?", models.ServiceTypeEngineer)

	if geoScoped {
		// 대략적 바운딩 박스로 DB에서 선별하고, 정확한 거리는 haversine으로 계산
		maxKm := *req.MaxDistance
		latDelta := maxKm / 111.0
		cosLat := math.Cos(req.Location.Lat * math.Pi / 180)
		if cosLat < 0.01 {
			cosLat = 0.01
		}
		lngDelta := maxKm / (111.0 * cosLat)

		query = query.
			Where("lat IS NOT NULL AND lng IS NOT NULL").
			Where("lat BETWEEN ? AND ?", req.Location.Lat-latDelta, req.Location.Lat+latDelta).
			Where("lng BETWEEN ? AND ?", req.Location.Lng-lngDelta, req.Location.Lng+lngDelta)
	}

	var candidates []models.Service
	if err := query.Limit(s.cfg.CandidateFetchCap).Find(&candidates).Error; err != nil {
		return nil, &UpstreamError{Dependency: "listing store", Err: err}
	}

	var results []MatchResult
	if geoScoped {
		items := make([]geo.Locatable, len(candidates))
		for i := range candidates {
			items[i] = &candidates[i]
		}
		within := geo.FilterByRadius(items, *req.Location, *req.MaxDistance)

		annotated := make([]scoredCandidate, 0, len(within))
		for _, w := range within {
			d := w.DistanceKm
			annotated = append(annotated, scoredCandidate{svc: &candidates[w.Index], distanceKm: &d})
		}
		results = s.rank(req, annotated)
	} else {
		annotated := make([]scoredCandidate, 0, len(candidates))
		for i := range candidates {
			annotated = append(annotated, scoredCandidate{svc: &candidates[i]})
		}
		results = s.rank(req, annotated)
	}

	return &MatchResponse{
		Count:     len(results),
		Engineers: results,
		Criteria: MatchCriteria{
			ProjectDescription: strings.TrimSpace(req.ProjectDescription),
			Skills:             req.Skills,
			Budget:             req.Budget,
			Urgency:            req.Urgency,
			Location:           req.Location,
			MaxDistanceKm:      *req.MaxDistance,
			RemoteOnly:         req.RemoteOnly,
		},
	}, nil
}

type scoredCandidate struct {
	svc        *models.Service
	distanceKm *float64
}

// rank scores every surviving candidate, sorts by score descending with
// ascending id as the deterministic tie-break, and truncates.
func (s *MatchService) rank(req *MatchRequest, candidates []scoredCandidate) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		score, matchedSkills := s.scorer.Score(req, c.svc)
		if matchedSkills == nil {
			matchedSkills = []string{}
		}

		r := MatchResult{
			CandidateID:   c.svc.ID,
			Score:         score,
			DistanceKm:    c.distanceKm,
			IsRemote:      c.svc.IsRemote,
			MatchedSkills: matchedSkills,
			Service:       c.svc,
		}
		if c.svc.Provider != nil {
			profile := c.svc.Provider.Sanitized()
			r.Provider = &profile
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	if len(results) > s.cfg.MatchResultLimit {
		results = results[:s.cfg.MatchResultLimit]
	}
	return results
}

// recommend asks the summarizer for a short annotation of the top
// results under a strict timeout. Failures are logged and swallowed.
func (s *MatchService) recommend(ctx context.Context, req *MatchRequest, results []MatchResult) string {
	top := results
	if len(top) > 3 {
		top = top[:3]
	}

	summaries := make([]ai.CandidateSummary, 0, len(top))
	for _, r := range top {
		summaries = append(summaries, ai.CandidateSummary{
			Title:      r.Service.Title,
			Type:       r.Service.Type,
			Score:      r.Score,
			DistanceKm: r.DistanceKm,
			Price:      r.Service.Price,
		})
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	summary, err := s.summarizer.Summarize(aiCtx, ai.SummaryRequest{
		ProjectDescription: req.ProjectDescription,
		Candidates:         summaries,
	})
	if err != nil {
		s.log.Warn("ai recommendation skipped", zap.Error(err))
		return ""
	}
	return summary
}

// cacheKey derives a deterministic key from the normalized request.
// The "service:" prefix ties match entries to listing mutations.
func (s *MatchService) cacheKey(req *MatchRequest) string {
	skills := make([]string, len(req.Skills))
	for i, sk := range req.Skills {
		skills[i] = strings.ToLower(sk)
	}
	sort.Strings(skills)

	var loc string
	if req.Location != nil {
		loc = fmt.Sprintf("%.4f,%.4f", req.Location.Lat, req.Location.Lng)
	}
	budget := ""
	if req.Budget != nil {
		budget = fmt.Sprintf("%.2f", *req.Budget)
	}

	canonical := strings.Join([]string{
		textnorm.Normalize(req.ProjectDescription, s.cfg.DefaultLanguage),
		strings.Join(skills, ","),
		budget,
		req.Urgency,
		loc,
		fmt.Sprintf("%.1f", *req.MaxDistance),
		fmt.Sprintf("%t", req.RemoteOnly),
	}, "|")

	return fmt.Sprintf("service:match:%x", sha1.Sum([]byte(canonical)))
}
