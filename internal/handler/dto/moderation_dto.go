package dto

import (
	"github.com/makkenzo/image-moderation-api/internal/domain/moderation"
)

type ModerationCategoryResponse struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity"`
}

type ModerationResponse struct {
	Safe         bool                         `json:"safe"`
	Categories   []ModerationCategoryResponse `json:"categories"`
	AnalysisTime float64                      `json:"analysis_time"`
	Message      string                       `json:"message"`
}

func NewModerationResponse(result *moderation.Result) ModerationResponse {
	categories := make([]ModerationCategoryResponse, len(result.Categories))
	for i, cat := range result.Categories {
		categories[i] = ModerationCategoryResponse{
			Name:       cat.Name,
			Confidence: cat.Confidence,
			Severity:   string(cat.Severity),
		}
	}
	return ModerationResponse{
		Safe:         result.Safe,
		Categories:   categories,
		AnalysisTime: result.AnalysisTime,
		Message:      result.Message,
	}
}
