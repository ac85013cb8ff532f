package contract

import (
	"bytes"
	"encoding/json"

	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
)

type Sentiment string

const (
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentAngry      Sentiment = "angry"
	SentimentFrustrated Sentiment = "frustrated"
)

// IsUpset reports whether the sentiment calls for a calm, professional reply.
func (s Sentiment) IsUpset() bool {
	return s == SentimentAngry || s == SentimentFrustrated
}

type Category string

const (
	CategoryUrgent           Category = "urgent"
	CategorySalesOpportunity Category = "sales_opportunity"
	CategoryGeneralInquiry   Category = "general_inquiry"
	CategorySpam             Category = "spam"
	CategoryComplaint        Category = "complaint"
	CategoryFollowUp         Category = "follow_up"
)

type SignalStrength string

const (
	SignalWeak     SignalStrength = "weak"
	SignalModerate SignalStrength = "moderate"
	SignalStrong   SignalStrength = "strong"
)

type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	TonePersuasive   Tone = "persuasive"
)

// Turn is one conversation turn as fed to the lead qualifier.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Translation struct {
	Original       string `json:"original"`
	Translated     string `json:"translated"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	WasTranslated  bool   `json:"was_translated"`
}

type SentimentAnalysis struct {
	Sentiment                  Sentiment `json:"sentiment"`
	Priority                   int       `json:"priority"`
	Category                   Category  `json:"category"`
	RequiresImmediateAttention bool      `json:"requires_immediate_attention"`
	Summary                    string    `json:"summary"`
}

// IsUrgent reports whether the analysis calls for an immediate response.
func (a SentimentAnalysis) IsUrgent() bool {
	return a.RequiresImmediateAttention ||
		a.Priority >= 8 ||
		a.Sentiment.IsUpset() ||
		a.Category == CategoryUrgent
}

// TriState carries a model judgment that may be true, false, or unknown.
// It accepts either a JSON bool or a string on the wire.
type TriState string

const (
	TriTrue    TriState = "true"
	TriFalse   TriState = "false"
	TriUnknown TriState = "unknown"
)

func (t *TriState) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		if b {
			*t = TriTrue
		} else {
			*t = TriFalse
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		switch s {
		case "true", "yes":
			*t = TriTrue
		case "false", "no":
			*t = TriFalse
		default:
			*t = TriUnknown
		}
		return nil
	}
	*t = TriUnknown
	return nil
}

type LeadScore string

const (
	LeadHot  LeadScore = "hot"
	LeadWarm LeadScore = "warm"
	LeadCold LeadScore = "cold"
)

type LeadQualification struct {
	Score             LeadScore `json:"score"`
	Confidence        int       `json:"confidence"`
	IntentLevel       int       `json:"intent_level"`
	BudgetIndicated   TriState  `json:"budget_indicated"`
	BudgetAmount      string    `json:"budget_amount,omitempty"`
	TimelineIndicated TriState  `json:"timeline_indicated"`
	Timeframe         string    `json:"timeframe,omitempty"`
	DecisionMaker     TriState  `json:"decision_maker"`
	PainPoints        []string  `json:"pain_points,omitempty"`
	Objections        []string  `json:"objections,omitempty"`
	NextBestAction    string    `json:"next_best_action,omitempty"`
	Reasoning         string    `json:"reasoning,omitempty"`
}

// IsSeriousBuyer reports whether the qualification marks a buyer worth
// direct sales attention.
func (l LeadQualification) IsSeriousBuyer() bool {
	return l.Score == LeadHot || l.IntentLevel >= 7
}

type BuyingSignals struct {
	HasBuyingSignal   bool           `json:"has_buying_signal"`
	SignalStrength    SignalStrength `json:"signal_strength"`
	SignalsDetected   []string       `json:"signals_detected"`
	SuggestedApproach string         `json:"suggested_response_approach,omitempty"`
}

type BestReplyRequest struct {
	Message         string
	Sentiment       SentimentAnalysis
	Lead            LeadQualification
	ContextSummary  string
	BusinessContext string
}

// MessageAnalysis is the aggregate pipeline result for one inbound message.
type MessageAnalysis struct {
	ClientID                   string              `json:"client_id"`
	MessageID                  string              `json:"message_id,omitempty"`
	OriginalMessage            string              `json:"original_message"`
	TranslatedMessage          string              `json:"translated_message"`
	DetectedLanguage           string              `json:"detected_language"`
	Sentiment                  SentimentAnalysis   `json:"sentiment"`
	Lead                       LeadQualification   `json:"lead_qualification"`
	BuyingSignals              BuyingSignals       `json:"buying_signals"`
	ClientContext              *memoryx.Context    `json:"client_context"`
	SuggestedResponses         []string            `json:"suggested_responses"`
	RequiresImmediateAttention bool                `json:"requires_immediate_attention"`
	RecommendedAction          string              `json:"recommended_action"`
}

type AutoReplyResult struct {
	ClientID         string           `json:"client_id"`
	OriginalMessage  string           `json:"original_message"`
	DetectedLanguage string           `json:"detected_language"`
	Sentiment        Sentiment        `json:"sentiment"`
	Priority         int              `json:"priority"`
	LeadScore        LeadScore        `json:"lead_score"`
	Reply            string           `json:"auto_reply"`
	Analysis         *MessageAnalysis `json:"analysis"`
}

type PreparedResponse struct {
	Original       string `json:"original"`
	AdjustedTone   string `json:"adjusted_tone"`
	Translated     string `json:"translated"`
	ClientLanguage string `json:"client_language"`
	ReadyToSend    string `json:"ready_to_send"`
}

type InboxOverview struct {
	TotalMessages    int                `json:"total_messages"`
	Urgent           int                `json:"urgent"`
	HotLeads         int                `json:"hot_leads"`
	Complaints       int                `json:"complaints"`
	PrioritizedInbox []*MessageAnalysis `json:"prioritized_inbox"`
}

type QuickAnalysis struct {
	Sentiment      Sentiment `json:"sentiment"`
	Priority       int       `json:"priority"`
	Category       Category  `json:"category"`
	NeedsAttention bool      `json:"needs_attention"`
}
