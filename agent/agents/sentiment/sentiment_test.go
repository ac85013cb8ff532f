package sentiment

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

type fakeClient struct {
	response string
	err      error
}

func (f *fakeClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newAnalyzer(client *fakeClient) contractx.SentimentAnalyzer {
	return New(client, promptx.LoadPromptSet())
}

func TestAnalyzeParsesModelOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: `{
		"sentiment": "angry",
		"priority": 9,
		"category": "complaint",
		"requires_immediate_attention": true,
		"summary": "Customer upset about a late order"
	}`}

	result, err := newAnalyzer(client).Analyze(context.Background(), "where is my order??")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Sentiment != contractx.SentimentAngry || result.Priority != 9 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !result.RequiresImmediateAttention {
		t.Fatal("expected requires_immediate_attention")
	}
}

func TestAnalyzeRemoteFailureUsesFallback(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: fmt.Errorf("%w: timeout", contractx.ErrRemoteCall)}

	result, err := newAnalyzer(client).Analyze(context.Background(), "hello")
	if err != nil {
		t.Fatalf("remote failure must not surface, got %v", err)
	}
	if result != Fallback("hello") {
		t.Fatalf("result = %+v, want fallback", result)
	}
}

func TestAnalyzeUnparseableUsesFallback(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: "Sure! The customer seems neutral overall."}

	result, err := newAnalyzer(client).Analyze(context.Background(), "hi there")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Sentiment != contractx.SentimentNeutral || result.Priority != 5 {
		t.Fatalf("result = %+v, want neutral/5 fallback", result)
	}
	if result.Category != contractx.CategoryGeneralInquiry {
		t.Fatalf("category = %q, want general_inquiry", result.Category)
	}
}

func TestFallbackTruncatesSummary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 250)
	fb := Fallback(long)
	if len(fb.Summary) != fallbackSummaryLen {
		t.Fatalf("summary length = %d, want %d", len(fb.Summary), fallbackSummaryLen)
	}
}

func TestFallbackTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// 2-byte runes; byte 100 lands mid-rune without the boundary check.
	long := strings.Repeat("é", 120)
	fb := Fallback(long)
	if !utf8.ValidString(fb.Summary) {
		t.Fatalf("summary is not valid UTF-8: %q", fb.Summary)
	}
	if len(fb.Summary) > fallbackSummaryLen {
		t.Fatalf("summary length = %d, want <= %d", len(fb.Summary), fallbackSummaryLen)
	}
}

func TestQuickSentimentNormalizes(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: "  Frustrated \n"}

	sentiment, err := newAnalyzer(client).QuickSentiment(context.Background(), "this keeps breaking")
	if err != nil {
		t.Fatalf("QuickSentiment() error = %v", err)
	}
	if sentiment != contractx.SentimentFrustrated {
		t.Fatalf("sentiment = %q, want frustrated", sentiment)
	}
}

func TestQuickPriorityNonNumberDefaults(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: "quite urgent I'd say"}

	priority, err := newAnalyzer(client).QuickPriority(context.Background(), "need it asap")
	if err != nil {
		t.Fatalf("QuickPriority() error = %v", err)
	}
	if priority != 5 {
		t.Fatalf("priority = %d, want default 5", priority)
	}
}

func TestQuickPriorityParsesNumber(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: " 8 "}

	priority, err := newAnalyzer(client).QuickPriority(context.Background(), "need it asap")
	if err != nil {
		t.Fatalf("QuickPriority() error = %v", err)
	}
	if priority != 8 {
		t.Fatalf("priority = %d, want 8", priority)
	}
}

func TestCategorizeRemoteFailureDefaults(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: fmt.Errorf("%w: upstream 500", contractx.ErrRemoteCall)}

	category, err := newAnalyzer(client).Categorize(context.Background(), "do you ship to France?")
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if category != contractx.CategoryGeneralInquiry {
		t.Fatalf("category = %q, want general_inquiry", category)
	}
}
