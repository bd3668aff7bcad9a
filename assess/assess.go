package assess

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"

	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Assessment is the advisory urgency read for a reported issue. It is UI
// input only and never gates the submission pipeline.
type Assessment struct {
	Text       string             `json:"text"`
	Confidence int                `json:"confidence"`
	Level      constants.Severity `json:"level"`
}

// Fallback is the neutral value served whenever the advisory service cannot
// answer in time. The assessor degrades; it never fails observably.
func Fallback() Assessment {
	return Assessment{
		Text:       "Medium urgency | AI analysis unavailable - manual assessment recommended for accurate prioritization.",
		Confidence: 60,
		Level:      constants.SeverityMedium,
	}
}

const systemPrompt = `You are a professional civic infrastructure analyst for a public accountability platform. Your role is to assess the urgency level of reported infrastructure and civic issues.

Analyze issues based on public safety impact, infrastructure criticality, potential for escalation, community impact, and time sensitivity.

Respond with a severity level (Low/Medium/High) followed by a brief, professional justification in one sentence.`

var severityTokenRegexp = regexp.MustCompile(`(?i)\b(low|medium|high)\b`)

// Assessor calls the advisory urgency service with a bounded timeout.
type Assessor struct {
	options *Options
	group   singleflight.Group
}

type Options struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	intn     func(n int) int
}

type Option func(*Options)

func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.endpoint = endpoint
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.apiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.client = client
	}
}

// WithIntn overrides the confidence sampler. Tests use it for determinism;
// the sampling is variability for display, not security-sensitive.
func WithIntn(intn func(n int) int) Option {
	return func(o *Options) {
		o.intn = intn
	}
}

func NewAssessor(opts ...Option) *Assessor {
	options := &Options{
		endpoint: "https://api.groq.com/openai/v1/chat/completions",
		model:    "llama-3.3-70b-versatile",
		client:   &http.Client{Timeout: constants.AssessTimeout},
		intn:     rand.Intn,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Assessor{options: options}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Assess returns the advisory urgency for a reported issue. Identical
// concurrent calls are coalesced. On missing configuration, transport error,
// non-success response, or timeout it returns the fallback rather than an
// error.
func (a *Assessor) Assess(ctx context.Context, title, description string) Assessment {
	if a.options.apiKey == "" {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}
	key := title + "\x00" + description
	v, _, _ := a.group.Do(key, func() (interface{}, error) {
		return a.assess(ctx, title, description), nil
	})
	return v.(Assessment)
}

func (a *Assessor) assess(ctx context.Context, title, description string) Assessment {
	ctx, cancel := context.WithTimeout(ctx, constants.AssessTimeout)
	defer cancel()

	if description == "" {
		description = "No additional details provided"
	}
	reqBody, err := json.Marshal(&chatRequest{
		Model: a.options.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Assess the urgency level of this reported issue:\n\nTitle: %s\nDescription: %s\n\nProvide your assessment as: [Urgency Level] | [Brief professional justification in one sentence]",
				title, description)},
		},
		Temperature: 0.3,
		MaxTokens:   150,
	})
	if err != nil {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.options.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+a.options.apiKey)

	resp, err := a.options.client.Do(request)
	if err != nil {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}

	chatResp := &chatResponse{}
	if err := json.NewDecoder(resp.Body).Decode(chatResp); err != nil {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		metrics.AssessFallbacks.Inc()
		return Fallback()
	}

	text := chatResp.Choices[0].Message.Content
	level := parseSeverity(text)
	return Assessment{
		Text:       text,
		Confidence: a.sampleConfidence(level),
		Level:      level,
	}
}

// parseSeverity extracts the first case-insensitive severity token from the
// response text, defaulting to Medium.
func parseSeverity(text string) constants.Severity {
	match := severityTokenRegexp.FindString(text)
	switch strings.ToLower(match) {
	case "low":
		return constants.SeverityLow
	case "high":
		return constants.SeverityHigh
	default:
		return constants.SeverityMedium
	}
}

// sampleConfidence maps a live severity read to a confidence score sampled
// uniformly within its range: High [80,95], Medium [70,85], Low [60,75].
func (a *Assessor) sampleConfidence(level constants.Severity) int {
	switch level {
	case constants.SeverityHigh:
		return a.options.intn(95-80+1) + 80
	case constants.SeverityLow:
		return a.options.intn(75-60+1) + 60
	default:
		return a.options.intn(85-70+1) + 70
	}
}

// LevelFromConfidence auto-selects an urgency level when the submitter does
// not force one: >75 High, >50 Medium, else Low.
func LevelFromConfidence(confidence int) constants.Severity {
	switch {
	case confidence > 75:
		return constants.SeverityHigh
	case confidence > 50:
		return constants.SeverityMedium
	default:
		return constants.SeverityLow
	}
}
