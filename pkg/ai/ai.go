package ai

import "context"

// CandidateSummary is the slice of a ranked result exposed to the
// summarizer. Contact and profile details never cross this boundary.
type CandidateSummary struct {
	Title      string
	Type       string
	Score      int
	DistanceKm *float64
	Price      *float64
}

// SummaryRequest carries what the summarizer needs to annotate a result set.
type SummaryRequest struct {
	ProjectDescription string
	Candidates         []CandidateSummary
}

// Summarizer produces a short natural-language recommendation for the top
// results. Implementations are best-effort collaborators: callers bound
// them with a timeout and drop the output on error.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}
