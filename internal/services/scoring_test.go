package services

import (
	"testing"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/models"
)

func defaultScorer() *Scorer {
	return NewScorer(config.Load().Scoring)
}

func fl(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func baseRequest() *MatchRequest {
	return &MatchRequest{
		ProjectDescription: "Need a custom PCB design for an IoT sensor node",
		Urgency:            "medium",
	}
}

func baseCandidate() *models.Service {
	return &models.Service{
		ID:          1,
		Type:        models.ServiceTypeEngineer,
		Title:       "Embedded hardware engineer",
		Description: "Experienced in embedded firmware and prototyping",
	}
}

func TestScoreSkillOverlapFraction(t *testing.T) {
	// 요청 스킬 2개 중 1개 매칭 → fraction 0.5 → +12.5
	req := baseRequest()
	req.Skills = []string{"PCB design", "IoT"}

	svc := baseCandidate()
	svc.Tags = "PCB design,robotics"

	score, matched := defaultScorer().Score(req, svc)

	if len(matched) != 1 || matched[0] != "PCB design" {
		t.Errorf("matched skills = %v, want [PCB design]", matched)
	}
	// base 50 + skill 12.5 = 62.5 → 반올림 63 (키워드 겹침 없음)
	if score != 63 {
		t.Errorf("score = %d, want 63", score)
	}
}

func TestScoreBudgetProximity(t *testing.T) {
	cases := []struct {
		name   string
		budget float64
		price  float64
		delta  int
	}{
		{"within 10 percent", 100000, 105000, 10},
		{"within 20 percent", 100000, 115000, 5},
		{"over 50 percent", 100000, 200000, -10},
		{"between thresholds", 100000, 130000, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := baseRequest()
			req.Budget = fl(c.budget)
			svc := baseCandidate()
			svc.Price = fl(c.price)

			score, _ := defaultScorer().Score(req, svc)
			want := 50 + c.delta
			if score != want {
				t.Errorf("score = %d, want %d", score, want)
			}
		})
	}
}

func TestScoreRemoteOnlyPenalty(t *testing.T) {
	req := baseRequest()
	req.RemoteOnly = true

	svc := baseCandidate()
	svc.IsRemote = false

	score, _ := defaultScorer().Score(req, svc)
	if score != 30 {
		t.Errorf("score = %d, want 30 (flat -20 penalty)", score)
	}

	svc.IsRemote = true
	score, _ = defaultScorer().Score(req, svc)
	if score != 50 {
		t.Errorf("score = %d, want 50 (no penalty for remote candidate)", score)
	}
}

func TestScoreUrgencyVsAvailability(t *testing.T) {
	req := baseRequest()
	req.Urgency = "high"

	svc := baseCandidate()
	svc.Availability = sp(models.AvailabilityImmediate)
	score, _ := defaultScorer().Score(req, svc)
	if score != 55 {
		t.Errorf("immediate availability vs high urgency: score = %d, want 55", score)
	}

	svc.Availability = sp(models.AvailabilityWithinMonth)
	score, _ = defaultScorer().Score(req, svc)
	if score != 45 {
		t.Errorf("within_month vs high urgency: score = %d, want 45", score)
	}

	// availability 미지정이면 신호 생략
	svc.Availability = nil
	score, _ = defaultScorer().Score(req, svc)
	if score != 50 {
		t.Errorf("absent availability: score = %d, want 50", score)
	}
}

func TestScoreReputation(t *testing.T) {
	req := baseRequest()
	svc := baseCandidate()
	svc.Rating = fl(5.0)
	svc.RatingCount = 20

	// min(5*2, 10) + min(20/2, 5) = 10 + 5 = 15
	score, _ := defaultScorer().Score(req, svc)
	if score != 65 {
		t.Errorf("score = %d, want 65", score)
	}
}

func TestScoreKeywordOverlap(t *testing.T) {
	req := baseRequest() // keywords: custom, pcb, design, iot, sensor, node...
	svc := baseCandidate()
	svc.Description = "Custom PCB design and IoT sensor prototyping"

	score, _ := defaultScorer().Score(req, svc)
	// 최소한 pcb/design/iot/sensor/custom 5개 겹침 → +25 (cap)
	if score != 75 {
		t.Errorf("score = %d, want 75 (keyword cap reached)", score)
	}
}

func TestScoreClampedToRange(t *testing.T) {
	// 모든 페널티를 겹쳐도 0 밑으로 내려가지 않는다
	req := baseRequest()
	req.RemoteOnly = true
	req.Budget = fl(100)
	req.Urgency = "high"

	svc := baseCandidate()
	svc.Price = fl(10000)
	svc.Availability = sp(models.AvailabilityNotSpecified)
	svc.IsRemote = false

	score, _ := defaultScorer().Score(req, svc)
	if score < 0 || score > 100 {
		t.Errorf("score %d out of [0,100]", score)
	}

	// 모든 보너스를 겹쳐도 100을 넘지 않는다
	req = baseRequest()
	req.ProjectDescription = "custom pcb design iot sensor node firmware prototype enclosure testing assembly"
	req.Skills = []string{"pcb"}
	req.Budget = fl(1000)
	svc = baseCandidate()
	svc.Description = req.ProjectDescription
	svc.Tags = "pcb"
	svc.Price = fl(1000)
	svc.Availability = sp(models.AvailabilityImmediate)
	svc.Rating = fl(5)
	svc.RatingCount = 100

	score, _ = defaultScorer().Score(req, svc)
	if score < 0 || score > 100 {
		t.Errorf("score %d out of [0,100]", score)
	}
}

func TestExtractKeywordsDropsStopwordsAndShortWords(t *testing.T) {
	kw := extractKeywords("The 3D printer for a lab, and the CNC mill!")
	if kw["the"] || kw["for"] || kw["and"] {
		t.Error("stopwords must be dropped")
	}
	if kw["3d"] || kw["a"] {
		t.Error("words of two runes or fewer must be dropped")
	}
	if !kw["printer"] || !kw["mill"] {
		t.Errorf("expected content words, got %v", kw)
	}
}
