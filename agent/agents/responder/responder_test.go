package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeStyles struct {
	examples []memoryx.StyleExample
}

func (f *fakeStyles) RecentStyleExamples(ctx context.Context, limit int) ([]memoryx.StyleExample, error) {
	return f.examples, nil
}

func newResponder(client *fakeClient, styles StyleSource) contractx.Responder {
	if styles == nil {
		styles = &fakeStyles{}
	}
	return New(client, promptx.LoadPromptSet(), styles, "amilie")
}

func TestSuggestRepliesParsesArray(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: `["Sure, here you go!", "Happy to help!", "Let me check.", "One more"]`}

	suggestions, err := newResponder(client, nil).SuggestReplies(context.Background(), "hi", "", 3)
	if err != nil {
		t.Fatalf("SuggestReplies() error = %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("got %d suggestions, want capped at 3", len(suggestions))
	}
	if suggestions[0] != "Sure, here you go!" {
		t.Fatalf("first = %q", suggestions[0])
	}
}

func TestSuggestRepliesUnparseableReturnsRawText(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: "  You could say: thanks for reaching out!  "}

	suggestions, err := newResponder(client, nil).SuggestReplies(context.Background(), "hi", "", 3)
	if err != nil {
		t.Fatalf("SuggestReplies() error = %v", err)
	}
	if len(suggestions) != 1 || suggestions[0] != "You could say: thanks for reaching out!" {
		t.Fatalf("suggestions = %v, want single trimmed raw text", suggestions)
	}
}

func TestSuggestRepliesRemoteFailurePropagates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: fmt.Errorf("%w: timeout", contractx.ErrRemoteCall)}

	_, err := newResponder(client, nil).SuggestReplies(context.Background(), "hi", "", 3)
	if !errors.Is(err, contractx.ErrRemoteCall) {
		t.Fatalf("expected remote call error, got %v", err)
	}
}

func TestGenerateBestReplyPromptContent(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: "  Thanks! Our logos start at $500.  "}
	r := newResponder(client, nil)

	reply, err := r.GenerateBestReply(context.Background(), contractx.BestReplyRequest{
		Message:         "How much for a logo?",
		Sentiment:       contractx.SentimentAnalysis{Sentiment: contractx.SentimentPositive, Category: contractx.CategorySalesOpportunity},
		Lead:            contractx.LeadQualification{Score: contractx.LeadWarm},
		ContextSummary:  "Client: Ana | Language: es",
		BusinessContext: "Pricing: logo $500",
	})
	if err != nil {
		t.Fatalf("GenerateBestReply() error = %v", err)
	}
	if reply != "Thanks! Our logos start at $500." {
		t.Fatalf("reply = %q, want trimmed model output", reply)
	}

	if len(client.prompts) != 1 {
		t.Fatalf("expected one call, got %d", len(client.prompts))
	}
	prompt := client.prompts[0]
	for _, want := range []string{"amilie", "Pricing: logo $500", "How much for a logo?", "Client: Ana | Language: es"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestGenerateBestReplyRemoteFailurePropagates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: fmt.Errorf("%w: upstream 500", contractx.ErrRemoteCall)}

	_, err := newResponder(client, nil).GenerateBestReply(context.Background(), contractx.BestReplyRequest{Message: "hi"})
	if !errors.Is(err, contractx.ErrRemoteCall) {
		t.Fatalf("expected remote call error, got %v", err)
	}
}

func TestPersonalizedSuggestionNoExamplesFallsBack(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: `["Thanks for asking!"]`}

	reply, err := newResponder(client, &fakeStyles{}).PersonalizedSuggestion(context.Background(), "do you ship?")
	if err != nil {
		t.Fatalf("PersonalizedSuggestion() error = %v", err)
	}
	if reply != "Thanks for asking!" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestPersonalizedSuggestionEmptySuggestionArray(t *testing.T) {
	t.Parallel()

	// "[]" decodes cleanly, so the raw-text degradation does not apply and
	// there is genuinely nothing to pick.
	client := &fakeClient{response: "[]"}

	_, err := newResponder(client, &fakeStyles{}).PersonalizedSuggestion(context.Background(), "how much?")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty suggestion array, got %v", err)
	}
}

func TestPersonalizedSuggestionRendersOldestFirst(t *testing.T) {
	t.Parallel()

	// RecentStyleExamples returns newest first; the prompt reads oldest first.
	styles := &fakeStyles{examples: []memoryx.StyleExample{
		{Inquiry: "newest q", Response: "newest a"},
		{Inquiry: "oldest q", Response: "oldest a"},
	}}
	client := &fakeClient{response: "Matching your style"}

	if _, err := newResponder(client, styles).PersonalizedSuggestion(context.Background(), "hello"); err != nil {
		t.Fatalf("PersonalizedSuggestion() error = %v", err)
	}
	prompt := client.prompts[0]
	oldest := strings.Index(prompt, "oldest q")
	newest := strings.Index(prompt, "newest q")
	if oldest < 0 || newest < 0 || oldest > newest {
		t.Fatalf("examples not oldest-first in prompt:\n%s", prompt)
	}
}

func TestCategorizeInquiryNormalizes(t *testing.T) {
	t.Parallel()

	client := &fakeClient{response: " Pricing \n"}

	category, err := newResponder(client, nil).CategorizeInquiry(context.Background(), "how much?")
	if err != nil {
		t.Fatalf("CategorizeInquiry() error = %v", err)
	}
	if category != "pricing" {
		t.Fatalf("category = %q, want pricing", category)
	}
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	if got := Templates("pricing"); len(got) == 0 {
		t.Fatal("expected canned pricing templates")
	}
	if got := Templates("no_such_category"); got != nil {
		t.Fatalf("unknown category should be nil, got %v", got)
	}
}
