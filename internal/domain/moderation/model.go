package moderation

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

const (
	// ConfidenceFloor is the minimum confidence for a category to be
	// reported at all. Categories at or below it never appear in a
	// result and never influence the safety verdict.
	ConfidenceFloor = 0.3

	mediumConfidence = 0.6
	highConfidence   = 0.8
)

type Category struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Severity   Severity `json:"severity"`
}

type Result struct {
	Safe         bool       `json:"safe"`
	Categories   []Category `json:"categories"`
	AnalysisTime float64    `json:"analysis_time"`
	Message      string     `json:"message"`
}

const (
	MessageSafe    = "Image analysis complete"
	MessageFlagged = "Potentially harmful content detected"
)

// SeverityForConfidence buckets a confidence score. Callers are
// expected to have filtered scores at or below ConfidenceFloor already.
func SeverityForConfidence(confidence float64) Severity {
	switch {
	case confidence > highConfidence:
		return SeverityHigh
	case confidence > mediumConfidence:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// BuildResult assembles the final verdict from reported categories. The
// image is safe iff no reported category reaches the threshold.
func BuildResult(categories []Category, threshold float64, elapsed time.Duration) *Result {
	safe := true
	for _, cat := range categories {
		if cat.Confidence >= threshold {
			safe = false
			break
		}
	}

	message := MessageSafe
	if !safe {
		message = MessageFlagged
	}

	return &Result{
		Safe:         safe,
		Categories:   categories,
		AnalysisTime: elapsed.Seconds(),
		Message:      message,
	}
}
