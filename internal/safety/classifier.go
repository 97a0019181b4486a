package safety

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

var classifierTracer = otel.Tracer("therabot/safety-classifier")

// RiskVerdict is the immutable result of classifying one message.
type RiskVerdict struct {
	IsCrisis     bool           `json:"is_crisis"`
	Level        Level          `json:"level"`
	MatchedTerms []string       `json:"matched_terms"`
	Confidence   float64        `json:"confidence"`
	Category     string         `json:"category,omitempty"`
	Signals      map[string]any `json:"signals"`
}

// Config carries the policy constants for classification. The thresholds and
// the fixed crisis confidence come from the shipped tables, not from a model.
type Config struct {
	CrisisConfidence float64
	DangerThreshold  int
	WarningThreshold int
}

// DefaultConfig returns the shipped policy constants.
func DefaultConfig() Config {
	return Config{
		CrisisConfidence: 0.95,
		DangerThreshold:  3,
		WarningThreshold: 1,
	}
}

// Classifier detects crisis and warning signals in user messages. It is
// stateless and safe for concurrent use.
type Classifier struct {
	cfg    Config
	logger *logging.Logger
}

// NewClassifier creates a classifier with the given policy constants.
func NewClassifier(cfg Config, logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CrisisConfidence <= 0 || cfg.CrisisConfidence > 1 {
		cfg.CrisisConfidence = DefaultConfig().CrisisConfidence
	}
	if cfg.DangerThreshold <= 0 {
		cfg.DangerThreshold = DefaultConfig().DangerThreshold
	}
	if cfg.WarningThreshold <= 0 {
		cfg.WarningThreshold = DefaultConfig().WarningThreshold
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify analyzes a message for crisis keywords and warning patterns. It is
// total over the input domain: empty or malformed text yields a SAFE verdict.
func (c *Classifier) Classify(ctx context.Context, message string) RiskVerdict {
	_, span := classifierTracer.Start(ctx, "safety.classify")
	defer span.End()

	lower := strings.ToLower(message)

	// Crisis pass: first category with any hit wins.
	for _, cat := range crisisCategories {
		matched := matchKeywords(lower, cat.Keywords)
		if len(matched) == 0 {
			continue
		}
		span.SetAttributes(
			attribute.Bool("safety.crisis", true),
			attribute.String("safety.category", cat.Name),
		)
		c.logger.Warn("crisis keywords detected",
			"category", cat.Name,
			"matched", len(matched),
		)
		return RiskVerdict{
			IsCrisis:     true,
			Level:        LevelCrisis,
			MatchedTerms: matched,
			Confidence:   c.cfg.CrisisConfidence,
			Category:     cat.Name,
			Signals: map[string]any{
				"crisis_type":               cat.Name,
				"requires_immediate_action": true,
				"legal_obligation":          "report_required",
			},
		}
	}

	// Warning pass: every pattern in every category contributes to the score.
	var matched []string
	warningScore := 0
	category := ""
	for _, cat := range warningCategories {
		hits := matchKeywords(lower, cat.Keywords)
		if len(hits) > 0 && category == "" {
			category = cat.Name
		}
		warningScore += len(hits)
		matched = append(matched, hits...)
	}

	level := LevelSafe
	switch {
	case warningScore >= c.cfg.DangerThreshold:
		level = LevelDanger
	case warningScore >= c.cfg.WarningThreshold:
		level = LevelWarning
	}
	if level == LevelSafe {
		category = ""
	}

	confidence := float64(warningScore) * 0.3
	if confidence > 0.9 {
		confidence = 0.9
	}

	span.SetAttributes(
		attribute.Bool("safety.crisis", false),
		attribute.String("safety.level", string(level)),
		attribute.Int("safety.warning_score", warningScore),
	)

	return RiskVerdict{
		IsCrisis:     false,
		Level:        level,
		MatchedTerms: matched,
		Confidence:   confidence,
		Category:     category,
		Signals:      analyzeSignals(message, lower),
	}
}

// matchKeywords returns all keywords found as substrings of the lowercased
// message, in table order.
func matchKeywords(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// analyzeSignals computes advisory linguistic features. They are carried as
// message metadata and never drive branching.
func analyzeSignals(message, lower string) map[string]any {
	signals := map[string]any{
		"message_length":     utf8.RuneCountInString(message),
		"contains_questions": strings.ContainsAny(message, "?؟"),
		"contains_negation":  containsAnyWord(lower, negationTerms),
		"emotion_indicators": emotionIndicators(message),
	}

	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			negativeCount++
		}
	}
	signals["negative_word_count"] = negativeCount
	signals["sentiment_score"] = -float64(negativeCount) * 0.2

	return signals
}

func containsAnyWord(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// emotionIndicators detects intensity cues: exclamation run length and a
// capitalization-emphasis ratio above 0.3 among alphabetic characters.
func emotionIndicators(message string) []string {
	indicators := []string{}

	switch {
	case strings.Contains(message, "!!!"):
		indicators = append(indicators, "high_intensity")
	case strings.Contains(message, "!!"):
		indicators = append(indicators, "medium_intensity")
	case strings.Contains(message, "!"):
		indicators = append(indicators, "low_intensity")
	}

	upper, alpha := 0, 0
	for _, r := range message {
		if unicode.IsLetter(r) {
			alpha++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if alpha > 0 && upper > 0 && upper < alpha {
		if float64(upper)/float64(alpha) > 0.3 {
			indicators = append(indicators, "emotional_emphasis")
		}
	}

	return indicators
}
