package safety

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_CrisisDetection(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)
	ctx := context.Background()

	tests := []struct {
		name         string
		message      string
		wantCategory string
	}{
		{
			name:         "arabic suicide phrase",
			message:      "أريد أن أموت",
			wantCategory: "suicide",
		},
		{
			name:         "english suicide phrase",
			message:      "sometimes I think I want to die",
			wantCategory: "suicide",
		},
		{
			name:         "self harm",
			message:      "I keep wanting to cut myself",
			wantCategory: "self_harm",
		},
		{
			name:         "abuse",
			message:      "my husband is beating me, it is domestic violence",
			wantCategory: "abuse",
		},
		{
			name:         "emergency health",
			message:      "help, I think my father has a heart attack",
			wantCategory: "emergency_health",
		},
		{
			name:         "case insensitive",
			message:      "I WANT TO DIE",
			wantCategory: "suicide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := c.Classify(ctx, tt.message)
			require.True(t, verdict.IsCrisis)
			assert.Equal(t, LevelCrisis, verdict.Level)
			assert.Equal(t, tt.wantCategory, verdict.Category)
			assert.Equal(t, 0.95, verdict.Confidence)
			assert.NotEmpty(t, verdict.MatchedTerms)
		})
	}
}

func TestClassifier_CategoryPriorityOrder(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)

	// Message matches both suicide and self_harm; suicide is declared first
	// so it wins the tie-break.
	verdict := c.Classify(context.Background(), "I want to die and I hurt myself")
	require.True(t, verdict.IsCrisis)
	assert.Equal(t, "suicide", verdict.Category)
}

func TestClassifier_CrisisMatchedTermsFromWinningCategory(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)

	verdict := c.Classify(context.Background(), "I want to die, it feels like suicide is the end my life answer")
	require.True(t, verdict.IsCrisis)
	// All hits from the winning category are reported, none from others.
	assert.ElementsMatch(t, []string{"suicide", "want to die", "end my life"}, verdict.MatchedTerms)
}

func TestClassifier_WarningLevels(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)
	ctx := context.Background()

	tests := []struct {
		name           string
		message        string
		wantLevel      Level
		wantScore      int
		wantConfidence float64
	}{
		{
			name:           "no hits is safe",
			message:        "I had a pleasant walk in the park today",
			wantLevel:      LevelSafe,
			wantConfidence: 0,
		},
		{
			name:           "one hit is warning",
			message:        "I have been feeling depressed lately",
			wantLevel:      LevelWarning,
			wantConfidence: 0.3,
		},
		{
			name:           "two hits stay warning",
			message:        "I feel depressed and hopeless",
			wantLevel:      LevelWarning,
			wantConfidence: 0.6,
		},
		{
			name:           "three hits become danger",
			message:        "I feel depressed and hopeless and had a panic attack",
			wantLevel:      LevelDanger,
			wantConfidence: 0.9,
		},
		{
			name:           "confidence capped at 0.9",
			message:        "depressed hopeless very sad panic attack terrified",
			wantLevel:      LevelDanger,
			wantConfidence: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := c.Classify(ctx, tt.message)
			require.False(t, verdict.IsCrisis)
			assert.Equal(t, tt.wantLevel, verdict.Level)
			assert.InDelta(t, tt.wantConfidence, verdict.Confidence, 1e-9)
		})
	}
}

func TestClassifier_WarningCategoryReported(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)

	verdict := c.Classify(context.Background(), "I have severe anxiety about work")
	assert.Equal(t, LevelWarning, verdict.Level)
	assert.Equal(t, "anxiety", verdict.Category)

	safe := c.Classify(context.Background(), "the weather is lovely")
	assert.Empty(t, safe.Category)
}

func TestClassifier_EmptyAndMalformedInput(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)
	ctx := context.Background()

	for _, msg := range []string{"", "   ", "\x00\xff\xfe", "🙂🙂🙂"} {
		verdict := c.Classify(ctx, msg)
		assert.False(t, verdict.IsCrisis)
		assert.Equal(t, LevelSafe, verdict.Level)
		assert.Zero(t, verdict.Confidence)
	}
}

func TestClassifier_Signals(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)

	verdict := c.Classify(context.Background(), "Why am I so sad and in pain?!!")
	require.False(t, verdict.IsCrisis)
	signals := verdict.Signals

	assert.Equal(t, true, signals["contains_questions"])
	assert.Equal(t, 2, signals["negative_word_count"])
	assert.InDelta(t, -0.4, signals["sentiment_score"].(float64), 1e-9)
	assert.Contains(t, signals["emotion_indicators"], "medium_intensity")

	shouty := c.Classify(context.Background(), "I AM SO UPSET about this")
	assert.Contains(t, shouty.Signals["emotion_indicators"], "emotional_emphasis")

	negated := c.Classify(context.Background(), "I am not fine")
	assert.Equal(t, true, negated.Signals["contains_negation"])
}

func TestClassifier_MessageLengthCountsCharacters(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil)

	// Arabic text is multi-byte in UTF-8; the length signal counts
	// characters, not bytes.
	arabic := c.Classify(context.Background(), "مرحباً")
	assert.Equal(t, 6, arabic.Signals["message_length"])

	ascii := c.Classify(context.Background(), "hello")
	assert.Equal(t, 5, ascii.Signals["message_length"])
}

func TestNewClassifier_SanitizesConfig(t *testing.T) {
	c := NewClassifier(Config{}, nil)
	verdict := c.Classify(context.Background(), "suicide")
	assert.Equal(t, 0.95, verdict.Confidence)
}
