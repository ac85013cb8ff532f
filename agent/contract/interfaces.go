package contract

import "context"

// CompletionClient is the single remote text-generation capability every
// adapter goes through. The transport imposes no schema; adapters own their
// prompt shape and response parsing.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// LanguageDetector maps raw text to a lowercase ISO 639-1 code, or
// LanguageUnknown when detection is not reliable.
type LanguageDetector interface {
	Detect(text string) string
}

const LanguageUnknown = "unknown"

type Translator interface {
	Translate(ctx context.Context, message, targetLanguage string) (Translation, error)
	TranslateForClient(ctx context.Context, message, clientLanguage string) (string, error)
	AdjustTone(ctx context.Context, message string, tone Tone) (string, error)
}

type SentimentAnalyzer interface {
	Analyze(ctx context.Context, message string) (SentimentAnalysis, error)
	QuickSentiment(ctx context.Context, message string) (Sentiment, error)
	QuickPriority(ctx context.Context, message string) (int, error)
	Categorize(ctx context.Context, message string) (Category, error)
}

type LeadQualifier interface {
	ScoreLead(ctx context.Context, conversation []Turn) (LeadQualification, error)
	DetectBuyingSignals(ctx context.Context, message string) (BuyingSignals, error)
	MissingQualificationInfo(ctx context.Context, conversation []Turn) ([]string, error)
	QualificationQuestions(missing []string) []string
}

type Responder interface {
	SuggestReplies(ctx context.Context, message, contextSummary string, count int) ([]string, error)
	GenerateBestReply(ctx context.Context, req BestReplyRequest) (string, error)
	PersonalizedSuggestion(ctx context.Context, message string) (string, error)
	CategorizeInquiry(ctx context.Context, message string) (string, error)
}

// Registry groups the four capability adapters the orchestrator sequences.
type Registry interface {
	Translator() Translator
	Sentiment() SentimentAnalyzer
	Qualifier() LeadQualifier
	Responder() Responder
}
