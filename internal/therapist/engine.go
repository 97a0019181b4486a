package therapist

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/therabot-ai/therabot-platform/internal/safety"
	"github.com/therabot-ai/therabot-platform/internal/session"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

// maxComponents caps how many template categories one response draws from.
const maxComponents = 3

// historyDepthForVariety is the conversation length after which SAFE
// conversations start rotating therapy styles.
const historyDepthForVariety = 5

// safeStyleWeights is the weighted draw for established SAFE conversations.
var safeStyleWeights = []struct {
	style  Style
	weight float64
}{
	{StyleSupportive, 0.2},
	{StyleCBT, 0.3},
	{StyleSolutionFocused, 0.3},
	{StyleMindfulness, 0.2},
}

// ComposedResponse is the rendered therapeutic reply.
type ComposedResponse struct {
	Message    string       `json:"message"`
	Style      Style        `json:"therapy_style"`
	Level      safety.Level `json:"safety_level"`
	Components []string     `json:"components"`
}

// Engine assembles templated therapeutic replies. All non-determinism flows
// through a single seedable randomness source, so it is a pure function of
// (input, seed). Safe for concurrent use.
type Engine struct {
	templates map[string][]string
	logger    *logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSeed pins the randomness source for deterministic output.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithTemplates replaces the default template pools.
func WithTemplates(templates map[string][]string) Option {
	return func(e *Engine) {
		e.templates = templates
	}
}

// NewEngine creates a response engine. An empty template pool is a
// configuration invariant violation and fails here, never at compose time.
func NewEngine(logger *logging.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		templates: defaultTemplates,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, component := range allComponents {
		if len(e.templates[component]) == 0 {
			return nil, fmt.Errorf("therapist: empty template pool for component %q", component)
		}
	}
	return e, nil
}

// Compose builds a reply for a non-crisis verdict. Crisis handling never
// reaches the engine; the orchestrator short-circuits before generation.
func (e *Engine) Compose(userMessage string, verdict safety.RiskVerdict, history []session.ChatMessage) ComposedResponse {
	style := e.selectStyle(verdict, len(history))
	components := e.selectComponents(userMessage, verdict, style)
	message := e.construct(components)

	switch verdict.Level {
	case safety.LevelDanger:
		message += dangerDisclaimer
	case safety.LevelWarning:
		message += warningDisclaimer
	}

	return ComposedResponse{
		Message:    message,
		Style:      style,
		Level:      verdict.Level,
		Components: components,
	}
}

// selectStyle picks the therapy style for this turn. Elevated levels always
// get supportive handling; established safe conversations rotate styles.
func (e *Engine) selectStyle(verdict safety.RiskVerdict, historyLen int) Style {
	switch verdict.Level {
	case safety.LevelCrisis, safety.LevelDanger:
		return StyleSupportive
	case safety.LevelWarning:
		if e.intn(2) == 0 {
			return StyleSupportive
		}
		return StyleCBT
	}

	if historyLen > historyDepthForVariety {
		draw := e.float64()
		acc := 0.0
		for _, sw := range safeStyleWeights {
			acc += sw.weight
			if draw < acc {
				return sw.style
			}
		}
		return safeStyleWeights[len(safeStyleWeights)-1].style
	}

	return StyleSupportive
}

// selectComponents applies the selection rules in order, then de-duplicates
// preserving first occurrence and caps the list.
func (e *Engine) selectComponents(userMessage string, verdict safety.RiskVerdict, style Style) []string {
	var components []string

	if verdict.Level != safety.LevelSafe {
		components = append(components, ComponentEmpathy)
	}

	lower := strings.ToLower(userMessage)
	for _, term := range negativeAffectTerms {
		if strings.Contains(lower, term) {
			components = append(components, ComponentValidation)
			break
		}
	}

	if len(strings.Fields(userMessage)) > 10 {
		components = append(components, ComponentExploration)
	}

	switch style {
	case StyleCBT:
		components = append(components, ComponentReframing)
	case StyleSolutionFocused:
		components = append(components, ComponentExploration, ComponentHope)
	case StyleMindfulness:
		components = append(components, ComponentCoping)
	}

	if len(components) == 0 {
		components = []string{ComponentEmpathy, ComponentExploration}
	}

	seen := make(map[string]struct{}, len(components))
	unique := components[:0]
	for _, c := range components {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	if len(unique) > maxComponents {
		unique = unique[:maxComponents]
	}
	return unique
}

// construct renders one template per component and joins the fragments with
// position-dependent connectors.
func (e *Engine) construct(components []string) string {
	parts := make([]string, 0, len(components))
	for _, component := range components {
		pool := e.templates[component]
		parts = append(parts, pool[e.intn(len(pool))])
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + pairConnectors[e.intn(len(pairConnectors))] + parts[1]
	}

	var b strings.Builder
	b.WriteString(parts[0])
	for i, part := range parts[1:] {
		if i == len(parts)-2 {
			b.WriteString(finalConnector)
		} else {
			b.WriteString(interiorConnectors[e.intn(len(interiorConnectors))])
		}
		b.WriteString(part)
	}
	return b.String()
}

// Styles returns the available therapy styles and their techniques.
func Styles() map[Style][]string {
	out := make(map[Style][]string, len(styleTechniques))
	for style, techniques := range styleTechniques {
		out[style] = append([]string(nil), techniques...)
	}
	return out
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}
