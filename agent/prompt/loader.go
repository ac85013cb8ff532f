package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/translate.txt
	translateRaw string

	//go:embed template/adjust_tone.txt
	adjustToneRaw string

	//go:embed template/sentiment.txt
	sentimentRaw string

	//go:embed template/quick_sentiment.txt
	quickSentimentRaw string

	//go:embed template/priority.txt
	priorityRaw string

	//go:embed template/categorize.txt
	categorizeRaw string

	//go:embed template/lead_score.txt
	leadScoreRaw string

	//go:embed template/buying_signals.txt
	buyingSignalsRaw string

	//go:embed template/missing_info.txt
	missingInfoRaw string

	//go:embed template/suggest_replies.txt
	suggestRepliesRaw string

	//go:embed template/categorize_inquiry.txt
	categorizeInquiryRaw string

	//go:embed template/best_reply_system.txt
	bestReplySystemRaw string

	//go:embed template/best_reply.txt
	bestReplyRaw string

	//go:embed template/style_suggestion.txt
	styleSuggestionRaw string
)

// PromptSet holds the embedded prompt templates, one per adapter operation.
type PromptSet struct {
	Translate         string
	AdjustTone        string
	Sentiment         string
	QuickSentiment    string
	Priority          string
	Categorize        string
	LeadScore         string
	BuyingSignals     string
	MissingInfo       string
	SuggestReplies    string
	CategorizeInquiry string
	BestReplySystem   string
	BestReply         string
	StyleSuggestion   string
}

// LoadPromptSet returns the trimmed prompt templates. Safe to call
// concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Translate:         strings.TrimSpace(translateRaw),
		AdjustTone:        strings.TrimSpace(adjustToneRaw),
		Sentiment:         strings.TrimSpace(sentimentRaw),
		QuickSentiment:    strings.TrimSpace(quickSentimentRaw),
		Priority:          strings.TrimSpace(priorityRaw),
		Categorize:        strings.TrimSpace(categorizeRaw),
		LeadScore:         strings.TrimSpace(leadScoreRaw),
		BuyingSignals:     strings.TrimSpace(buyingSignalsRaw),
		MissingInfo:       strings.TrimSpace(missingInfoRaw),
		SuggestReplies:    strings.TrimSpace(suggestRepliesRaw),
		CategorizeInquiry: strings.TrimSpace(categorizeInquiryRaw),
		BestReplySystem:   strings.TrimSpace(bestReplySystemRaw),
		BestReply:         strings.TrimSpace(bestReplyRaw),
		StyleSuggestion:   strings.TrimSpace(styleSuggestionRaw),
	}
}
