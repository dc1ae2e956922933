package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/models"
	"github.com/makerlink/server/pkg/ai"
	"github.com/makerlink/server/pkg/cache"
	"github.com/makerlink/server/pkg/geo"
)

func testMatchService(summarizer ai.Summarizer) *MatchService {
	cfg := config.Load()
	cfg.AITimeout = 50 * time.Millisecond
	return NewMatchService(nil, cache.New(), cfg, summarizer)
}

func validRequest() *MatchRequest {
	return &MatchRequest{
		ProjectDescription: "Need a custom PCB design for an IoT sensor node",
	}
}

func TestValidateRejectsShortDescription(t *testing.T) {
	req := &MatchRequest{ProjectDescription: "too short"}
	err := req.Validate(config.Load())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "projectDescription" {
		t.Errorf("violated field = %s, want projectDescription", verr.Field)
	}
}

func TestValidateRejectsLongDescription(t *testing.T) {
	req := &MatchRequest{ProjectDescription: strings.Repeat("가", 1001)}
	if err := req.Validate(config.Load()); err == nil {
		t.Error("expected rejection of >1000 character description")
	}
}

func TestValidateRejectsNonFiniteInputs(t *testing.T) {
	cfg := config.Load()

	req := validRequest()
	req.Budget = fl(math.NaN())
	if err := req.Validate(cfg); err == nil {
		t.Error("NaN budget must be rejected")
	}

	req = validRequest()
	req.Location = &geo.Point{Lat: math.Inf(1), Lng: 126.9780}
	if err := req.Validate(cfg); err == nil {
		t.Error("infinite latitude must be rejected")
	}

	req = validRequest()
	req.MaxDistance = fl(math.NaN())
	if err := req.Validate(cfg); err == nil {
		t.Error("NaN maxDistance must be rejected")
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := config.Load()
	req := validRequest()
	req.Skills = []string{" PCB design ", "", "IoT"}

	if err := req.Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Urgency != "medium" {
		t.Errorf("urgency default = %s, want medium", req.Urgency)
	}
	if req.MaxDistance == nil || *req.MaxDistance != cfg.MaxDistanceKm {
		t.Errorf("maxDistance default not applied: %v", req.MaxDistance)
	}
	if len(req.Skills) != 2 {
		t.Errorf("blank skills should be dropped, got %v", req.Skills)
	}
}

func TestValidateRejectsUnknownUrgency(t *testing.T) {
	req := validRequest()
	req.Urgency = "asap"
	if err := req.Validate(config.Load()); err == nil {
		t.Error("unknown urgency must be rejected")
	}
}

func TestRankSortsAndTruncates(t *testing.T) {
	s := testMatchService(nil)
	s.cfg.MatchResultLimit = 2

	req := validRequest()
	if err := req.Validate(s.cfg); err != nil {
		t.Fatal(err)
	}

	// id 3은 높은 평판, id 1/2는 동점 → 점수 내림차순, 동점은 id 오름차순
	candidates := []scoredCandidate{
		{svc: &models.Service{ID: 2, Description: "machining"}},
		{svc: &models.Service{ID: 3, Description: "machining", Rating: fl(5), RatingCount: 20}},
		{svc: &models.Service{ID: 1, Description: "machining"}},
	}

	results := s.rank(req, candidates)
	if len(results) != 2 {
		t.Fatalf("expected truncation to 2 results, got %d", len(results))
	}
	if results[0].CandidateID != 3 {
		t.Errorf("highest score first: got id %d", results[0].CandidateID)
	}
	if results[1].CandidateID != 1 {
		t.Errorf("tie should break by ascending id: got id %d", results[1].CandidateID)
	}
}

// fakeSummarizer can succeed, fail or hang past the caller's timeout.
type fakeSummarizer struct {
	out   string
	err   error
	delay time.Duration
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req ai.SummaryRequest) (string, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.out, f.err
}

func TestRecommendSwallowsSummarizerFailure(t *testing.T) {
	s := testMatchService(&fakeSummarizer{err: errors.New("upstream down")})

	req := validRequest()
	results := []MatchResult{{Service: &models.Service{Title: "CNC shop", Type: "fabrication"}, Score: 70}}

	if got := s.recommend(context.Background(), req, results); got != "" {
		t.Errorf("failed summarizer must yield empty recommendation, got %q", got)
	}
}

func TestRecommendHonorsTimeout(t *testing.T) {
	s := testMatchService(&fakeSummarizer{out: "late answer", delay: time.Second})

	req := validRequest()
	results := []MatchResult{{Service: &models.Service{Title: "CNC shop", Type: "fabrication"}, Score: 70}}

	start := time.Now()
	got := s.recommend(context.Background(), req, results)
	if got != "" {
		t.Errorf("slow summarizer must be dropped, got %q", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("recommend did not honor the configured timeout")
	}
}

func TestRecommendReturnsSummary(t *testing.T) {
	s := testMatchService(&fakeSummarizer{out: "Pick the CNC shop."})

	req := validRequest()
	results := []MatchResult{{Service: &models.Service{Title: "CNC shop", Type: "fabrication"}, Score: 70}}

	if got := s.recommend(context.Background(), req, results); got != "Pick the CNC shop." {
		t.Errorf("unexpected recommendation %q", got)
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	s := testMatchService(nil)

	a := validRequest()
	a.Skills = []string{"IoT", "PCB design"}
	b := validRequest()
	b.Skills = []string{"pcb design", "iot"} // 순서/대소문자 무관

	if err := a.Validate(s.cfg); err != nil {
		t.Fatal(err)
	}
	if err := b.Validate(s.cfg); err != nil {
		t.Fatal(err)
	}

	if s.cacheKey(a) != s.cacheKey(b) {
		t.Error("cache key must be independent of skill order and case")
	}

	c := validRequest()
	c.RemoteOnly = true
	if err := c.Validate(s.cfg); err != nil {
		t.Fatal(err)
	}
	if s.cacheKey(a) == s.cacheKey(c) {
		t.Error("different requests must not share a cache key")
	}
}
