package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/models"
)

// urgency 1~3, availability 0~3. availability >= urgency면 가산점.
var urgencyLevels = map[string]int{
	"low":    1,
	"medium": 2,
	"high":   3,
}

var availabilityLevels = map[string]int{
	models.AvailabilityNotSpecified: 0,
	models.AvailabilityWithinMonth:  1,
	models.AvailabilityWithinWeek:   2,
	models.AvailabilityImmediate:    3,
}

var wordSplitRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "are": true, "was": true, "have": true,
	"has": true, "will": true, "would": true, "can": true, "could": true,
	"need": true, "want": true, "looking": true, "into": true, "about": true,
	"어떤": true, "위한": true, "있는": true, "그리고": true, "필요": true,
}

// Scorer computes a 0-100 match score per candidate. Weights come from
// config and default to the documented policy.
type Scorer struct {
	w config.ScoringConfig
}

func NewScorer(w config.ScoringConfig) *Scorer {
	return &Scorer{w: w}
}

// Score combines the independent signals into a clamped integer score
// and returns the requested skills matched against the candidate's tags.
func (s *Scorer) Score(req *MatchRequest, svc *models.Service) (int, []string) {
	score := s.w.Base

	// 1. 키워드 겹침
	reqKeywords := extractKeywords(req.ProjectDescription)
	svcKeywords := extractKeywords(svc.Description)
	overlap := 0
	for k := range reqKeywords {
		if svcKeywords[k] {
			overlap++
		}
	}
	score += math.Min(s.w.KeywordPerMatch*float64(overlap), s.w.KeywordCap)

	// 2. 스킬 겹침 (요청에 스킬이 있을 때만)
	var matched []string
	if len(req.Skills) > 0 {
		tags := svc.TagList()
		for _, skill := range req.Skills {
			if skillMatchesTags(skill, tags) {
				matched = append(matched, skill)
			}
		}
		fraction := float64(len(matched)) / float64(len(req.Skills))
		score += fraction * s.w.SkillCap
	}

	// 3. 예산 근접도
	if req.Budget != nil && svc.Price != nil {
		relDiff := math.Abs(*svc.Price-*req.Budget) / *req.Budget
		switch {
		case relDiff <= 0.10:
			score += s.w.BudgetTightBonus
		case relDiff <= 0.20:
			score += s.w.BudgetNearBonus
		case relDiff >= 0.50:
			score -= s.w.BudgetFarPenalty
		}
	}

	// 4. 긴급도 대비 가용성 (availability 미지정 시 생략)
	if svc.Availability != nil {
		if availScore, ok := availabilityLevels[*svc.Availability]; ok {
			urgencyScore := urgencyLevels[req.Urgency]
			if urgencyScore == 0 {
				urgencyScore = urgencyLevels["medium"]
			}
			if availScore >= urgencyScore {
				score += s.w.UrgencyBonus
			} else {
				score -= s.w.UrgencyPenalty
			}
		}
	}

	// 5. 원격 전용 요청에 비원격 후보
	if req.RemoteOnly && !svc.IsRemote {
		score -= s.w.RemotePenalty
	}

	// 6. 평판
	if svc.Rating != nil {
		score += math.Min(*svc.Rating*s.w.RatingFactor, s.w.RatingCap)
		score += math.Min(float64(svc.RatingCount)/2, s.w.RatingCountCap)
	}

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	return final, matched
}

// extractKeywords lowercases, splits on non-word runes, drops stopwords
// and words of two runes or fewer, and dedupes.
func extractKeywords(text string) map[string]bool {
	words := wordSplitRegex.Split(strings.ToLower(text), -1)
	keywords := make(map[string]bool, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 2 || stopwords[w] {
			continue
		}
		keywords[w] = true
	}
	return keywords
}

// skillMatchesTags is a case-insensitive substring match in either
// direction between a requested skill and the candidate's tags.
func skillMatchesTags(skill string, tags []string) bool {
	sk := strings.ToLower(strings.TrimSpace(skill))
	if sk == "" {
		return false
	}
	for _, tag := range tags {
		tg := strings.ToLower(tag)
		if strings.Contains(tg, sk) || strings.Contains(sk, tg) {
			return true
		}
	}
	return false
}
