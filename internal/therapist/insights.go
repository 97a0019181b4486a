package therapist

import (
	"strings"

	"github.com/therabot-ai/therabot-platform/internal/session"
)

// topicKeywords maps conversation topics to their indicator terms.
var topicKeywords = map[string][]string{
	"علاقات": {"زوج", "زوجة", "أم", "أب", "صديق", "علاقة", "أسرة"},
	"عمل":    {"عمل", "وظيفة", "مدير", "زملاء", "راتب", "مشروع"},
	"قلق":    {"قلق", "توتر", "خوف", "هلع", "مستقبل"},
	"اكتئاب": {"حزن", "يأس", "فقدان الأمل", "لا معنى", "تعاسة"},
	"صحة":    {"نوم", "أكل", "صحة", "مرض", "ألم", "تعب"},
}

// topicOrder fixes the reporting order of detected topics.
var topicOrder = []string{"علاقات", "عمل", "قلق", "اكتئاب", "صحة"}

var (
	positiveToneWords = []string{"سعيد", "فرح", "أمل", "تحسن", "شكراً", "أفضل"}
	negativeToneWords = []string{"حزين", "قلق", "خوف", "يأس", "مشكلة", "صعب"}
)

const maxReportedTopics = 3

// ConversationInsights summarizes patterns across a session's history.
type ConversationInsights struct {
	Pattern          string   `json:"pattern"`
	MessageCount     int      `json:"message_count"`
	AvgMessageLength float64  `json:"avg_message_length"`
	Topics           []string `json:"topics"`
	EmotionalTone    string   `json:"emotional_tone"`
}

// AnalyzeConversation extracts topics, tone and message statistics from a
// conversation history. Advisory only; nothing in the pipeline branches on it.
func AnalyzeConversation(history []session.ChatMessage) ConversationInsights {
	if len(history) == 0 {
		return ConversationInsights{Pattern: "new_conversation"}
	}

	var userMessages []session.ChatMessage
	var allText strings.Builder
	for _, msg := range history {
		allText.WriteString(msg.Content)
		allText.WriteString(" ")
		if msg.Role == session.RoleUser {
			userMessages = append(userMessages, msg)
		}
	}
	text := allText.String()

	totalLen := 0
	for _, msg := range userMessages {
		totalLen += len(msg.Content)
	}
	avgLen := 0.0
	if len(userMessages) > 0 {
		avgLen = float64(totalLen) / float64(len(userMessages))
	}

	return ConversationInsights{
		Pattern:          "ongoing",
		MessageCount:     len(userMessages),
		AvgMessageLength: avgLen,
		Topics:           extractTopics(text),
		EmotionalTone:    assessTone(strings.ToLower(text)),
	}
}

func extractTopics(text string) []string {
	var topics []string
	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(text, kw) {
				topics = append(topics, topic)
				break
			}
		}
		if len(topics) == maxReportedTopics {
			break
		}
	}
	return topics
}

func assessTone(lower string) string {
	positive, negative := 0, 0
	for _, word := range positiveToneWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			positive++
		}
	}
	for _, word := range negativeToneWords {
		if strings.Contains(lower, word) {
			negative++
		}
	}

	switch {
	case negative > positive*2:
		return "negative"
	case positive > negative*2:
		return "positive"
	default:
		return "neutral"
	}
}
