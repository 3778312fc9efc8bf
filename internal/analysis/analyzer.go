package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxScore bounds the price impact score on both sides.
const MaxScore = 10.0

// Summary sizes accepted by Summarize.
const (
	SizeShort  = "short"
	SizeMedium = "medium"
	SizeLong   = "long"
)

const (
	NoSummaryText    = "No text provided for summarization."
	NoPredictionText = "No text provided for prediction."
)

var sentences = map[string]string{
	SizeShort:  "1-2 sentences",
	SizeMedium: "2-3 sentences",
	SizeLong:   "4-6 sentences",
}

// Prediction is the model's view of how a news text moves a stock price.
type Prediction struct {
	Explanation string  `json:"priceImpactExplanation"`
	Score       float64 `json:"priceImpactScore"`
	// Degraded marks a zero score produced because the model call failed.
	Degraded bool `json:"-"`
}

// Analyzer summarizes news texts and scores their price impact.
type Analyzer struct {
	Completer    Completer
	MaxRetries   int
	InitialDelay time.Duration
	Logger       *zap.Logger
}

func NewAnalyzer(c Completer, logger *zap.Logger) *Analyzer {
	return &Analyzer{Completer: c, MaxRetries: 3, InitialDelay: time.Second, Logger: logger}
}

// ValidSize reports whether size is a known summary size.
func ValidSize(size string) bool {
	_, ok := sentences[size]
	return ok
}

// Summarize returns a neutral summary of text. An empty size means medium.
func (a *Analyzer) Summarize(ctx context.Context, text, language, size string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return NoSummaryText, nil
	}
	if size == "" {
		size = SizeMedium
	}
	length, ok := sentences[size]
	if !ok {
		return "", fmt.Errorf("unknown summary size %q", size)
	}
	if language == "" {
		language = "en"
	}

	system := "You are a financial news editor. Write neutral summaries without personal judgment."
	user := fmt.Sprintf("Create a brief summary of the following news article in language %q (%s, neutral tone, no personal judgment):\n\n%s",
		language, length, text)

	out, err := a.complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if out = strings.TrimSpace(out); out == "" {
		return "Model did not return a summary.", nil
	}
	return out, nil
}

const predictPrompt = `You are an experienced equity market analyst.
You will be given a full news article about a publicly traded company.
Give your expert opinion on how this news is likely to affect the company's stock price over the short term (hours up to several days), and a single numeric impact score from -10 to 10, where -10 is an extremely strong negative impact, 0 is no meaningful or unclear impact, and +10 is an extremely strong positive impact.
Base your reasoning only on the article and general market logic. Do not give trading advice.
Answer strictly in valid JSON with no text before or after it:
{"priceImpactExplanation": "...", "priceImpactScore": 0}`

// Predict scores the price impact of text. Model failures degrade to a zero
// score; only context cancellation is returned as an error.
func (a *Analyzer) Predict(ctx context.Context, text string) (Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return Prediction{Explanation: NoPredictionText}, nil
	}

	raw, err := a.complete(ctx, predictPrompt, "Now read and analyze the following news article:\n\n"+text)
	if err != nil {
		if ctx.Err() != nil {
			return Prediction{}, ctx.Err()
		}
		a.Logger.Warn("prediction degraded", zap.Error(err))
		return Prediction{Explanation: fmt.Sprintf("Error while calling model: %v", err), Degraded: true}, nil
	}
	if strings.TrimSpace(raw) == "" {
		return Prediction{Explanation: "Model did not return any explanation."}, nil
	}

	explanation, score := parseImpact(raw)
	if explanation == "" {
		explanation = "No explanation provided by the model."
	}
	return Prediction{Explanation: explanation, Score: score}, nil
}

// complete retries temporarily unavailable errors with exponential backoff.
func (a *Analyzer) complete(ctx context.Context, system, user string) (string, error) {
	attempts := max(a.MaxRetries, 1)
	var lastErr error
	for i := 0; i < attempts; i++ {
		out, err := a.Completer.Complete(ctx, system, user)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) || i == attempts-1 {
			break
		}
		backoff := a.InitialDelay * time.Duration(1<<uint(i))
		a.Logger.Warn("model unavailable, retrying",
			zap.Int("attempt", i+1), zap.Int("max_attempts", attempts), zap.Duration("backoff", backoff), zap.Error(err))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}
