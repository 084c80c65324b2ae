// Package openai ranks transcript segments with an OpenAI-compatible
// chat-completion endpoint. It is best-effort by contract: callers fall back
// to deterministic selection on any error.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/reelify/reelify/internal/types"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	requestTimeout = 90 * time.Second
)

type Adapter struct {
	model  string
	client *gopenai.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	cfg := gopenai.DefaultConfig(apiKey)
	if u := normalizeBaseURL(baseURL); u != defaultBaseURL {
		cfg.BaseURL = u + "/v1"
	}
	return &Adapter{model: model, client: gopenai.NewClientWithConfig(cfg)}
}

func (a *Adapter) Rank(ctx context.Context, fullText string, segments []types.Segment, count int) ([]int, error) {
	if count <= 0 || len(segments) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(fullText, segments, count)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(reqCtx, gopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []gopenai.ChatCompletionMessage{
			{
				Role:    gopenai.ChatMessageRoleSystem,
				Content: "You are an expert video editor who selects impactful clips for short-form reels.",
			},
			{
				Role:    gopenai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   100,
		Temperature: 0.3,
	})
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("openai timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: no choices in response")
	}

	return ParseIndices(resp.Choices[0].Message.Content)
}

func buildPrompt(fullText string, segments []types.Segment, count int) (string, error) {
	type indexed struct {
		Index int     `json:"index"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	}
	arr := make([]indexed, 0, len(segments))
	for _, s := range segments {
		arr = append(arr, indexed{Index: s.Index, Start: s.Start, End: s.End, Text: s.Text})
	}
	sb, err := json.Marshal(arr)
	if err != nil {
		return "", fmt.Errorf("marshal segments: %w", err)
	}

	return fmt.Sprintf(
		"Analyze the following video transcript and identify the %d most important, engaging, "+
			"and meaningful segments that would make great short video reels.\n\n"+
			"Consider segments that are:\n"+
			"- Most engaging or entertaining\n"+
			"- Contain key information or insights\n"+
			"- Have emotional impact\n"+
			"- Are self-contained and make sense on their own\n\n"+
			"Full transcript: %s\n\n"+
			"Segments with timestamps:\n%s\n\n"+
			"Return the indices of the %d most important segments as a JSON array of numbers. "+
			"Return strictly valid JSON, no markdown, no prose. Example: [2, 7, 15]",
		count, fullText, string(sb), count,
	), nil
}

// ParseIndices extracts a JSON array of integers from model output, tolerating
// markdown fences and surrounding prose.
func ParseIndices(content string) ([]int, error) {
	clean, err := extractJSONArray(content)
	if err != nil {
		return nil, err
	}
	var idxs []int
	if err := json.Unmarshal([]byte(clean), &idxs); err != nil {
		return nil, fmt.Errorf("openai: decode indices: %w", err)
	}
	return idxs, nil
}

func extractJSONArray(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("openai: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON array found.
	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("openai: could not locate JSON array in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
