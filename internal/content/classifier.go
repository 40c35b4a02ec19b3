package content

import (
	"context"

	"go.uber.org/zap"

	"auralis.core/internal/logger"
)

// Classifier is the pluggable genre-classification strategy. The
// rule-based scorer in genre.go always exists as the fallback; an
// external ML service may implement this interface to replace it.
type Classifier interface {
	Classify(ctx context.Context, p Profile) (Genre, float64, error)
}

// ruleBasedClassifier adapts ClassifyGenre to the Classifier interface.
type ruleBasedClassifier struct{}

func (ruleBasedClassifier) Classify(_ context.Context, p Profile) (Genre, float64, error) {
	genre, confidence := ClassifyGenre(p)
	return genre, confidence, nil
}

// RuleBased is the always-available fallback classifier.
var RuleBased Classifier = ruleBasedClassifier{}

// ClassifyWithFallback tries primary (if non-nil); on error, or if primary
// is nil, it falls back to the rule-based classifier. This is the "if
// unavailable or fails, the rule-based path is used" policy from §4.3.
func ClassifyWithFallback(ctx context.Context, p Profile, primary Classifier) (Genre, float64) {
	if primary != nil {
		genre, confidence, err := primary.Classify(ctx, p)
		if err == nil {
			return genre, confidence
		}
		logger.WarnWithFields("ml classifier failed, falling back to rule-based genre scoring", zap.Error(err))
	}
	genre, confidence, _ := RuleBased.Classify(ctx, p)
	return genre, confidence
}
