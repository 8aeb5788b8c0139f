package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rahul/sahayak/internal/task"
	"github.com/tmc/langchaingo/llms"
)

// SummarizerTool condenses content gathered by earlier steps. With a model
// configured it asks the LLM for a bullet or comparison summary; otherwise
// it falls back to a simple extractive one.
type SummarizerTool struct {
	Model llms.Model // nil means extractive fallback only
}

func NewSummarizerTool(model llms.Model) *SummarizerTool {
	return &SummarizerTool{Model: model}
}

func (s *SummarizerTool) Name() string {
	return "summarize"
}

func (s *SummarizerTool) Description() string {
	return "Summarize content gathered by earlier steps. Args: mode ('bullet' or 'comparison'), max_sentences (int, default 5)."
}

func (s *SummarizerTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type":        "string",
				"enum":        []string{"bullet", "comparison"},
				"description": "Summary style",
			},
			"max_sentences": map[string]any{
				"type":        "integer",
				"description": "Maximum number of sentences or bullets (default 5)",
			},
		},
	}
}

func (s *SummarizerTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	mode := args.String("mode")
	if mode == "" {
		mode = "bullet"
	}
	maxSentences := args.Int("max_sentences", 5)

	joined := collectContent(tc)
	if joined == "" {
		return &Result{
			Logs:   []string{"No content found to summarise"},
			Output: map[string]any{"summary": "(no content)"},
		}, nil
	}

	if s.Model != nil {
		summary, err := s.summarizeLLM(ctx, joined, mode, maxSentences)
		if err == nil {
			return &Result{
				Logs:   []string{"Generated summary using LLM"},
				Output: map[string]any{"summary": summary},
			}, nil
		}
		// Fall through to the extractive path; the run should not fail
		// just because the model is unreachable.
		return s.extractive(joined, maxSentences, fmt.Sprintf("LLM summarization failed: %v", err)), nil
	}

	return s.extractive(joined, maxSentences, ""), nil
}

func (s *SummarizerTool) summarizeLLM(ctx context.Context, text, mode string, maxSentences int) (string, error) {
	style := "bullet points"
	if mode == "comparison" {
		style = "a short comparison table in plain text"
	}
	prompt := fmt.Sprintf("Summarize the following text in %d %s:\n\n%s", maxSentences, style, truncate(text, 3000))

	out, err := llms.GenerateFromSinglePrompt(ctx, s.Model, prompt,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(400),
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *SummarizerTool) extractive(text string, maxSentences int, warn string) *Result {
	sentences := splitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	summary := "- " + strings.Join(sentences, "\n- ")

	logs := []string{}
	if warn != "" {
		logs = append(logs, warn)
	}
	logs = append(logs, "Generated extractive summary (fallback)")
	return &Result{Logs: logs, Output: map[string]any{"summary": summary}}
}

// collectContent gathers scraped page text first, then search snippets.
func collectContent(tc *task.Context) string {
	var texts []string
	for _, p := range tc.Pages() {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	for _, r := range tc.SearchResults() {
		if r.Snippet != "" {
			texts = append(texts, r.Snippet)
		}
	}
	return strings.Join(texts, "\n\n")
}

// splitSentences breaks text after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	runes := []rune(strings.TrimSpace(text))
	for i, r := range runes {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(cur.String()); s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
