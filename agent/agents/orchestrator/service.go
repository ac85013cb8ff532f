// Package orchestrator sequences the capability adapters over one inbound
// message and owns every read/write against the context store.
package orchestrator

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	businessx "github.com/amilie-studio/inbox-agent/agent/business"
	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
	nodex "github.com/amilie-studio/inbox-agent/agent/nodes"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidClient  = nodex.ErrInvalidClient
)

const defaultInboxWorkers = 4

type Config struct {
	// WorkingLanguage is the language the analysis stages run in.
	WorkingLanguage string
	// InboxWorkers bounds concurrent pipelines in InboxOverview.
	InboxWorkers int
}

// InboxMessage is one entry of an inbox batch.
type InboxMessage struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
}

type Orchestrator struct {
	store  memoryx.Store
	models contractx.Registry
	facts  businessx.Facts

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	workingLanguage string
	inboxWorkers    int

	now func() time.Time
}

func New(store memoryx.Store, models contractx.Registry, facts businessx.Facts, cfg Config) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("context store is required")
	}
	if models == nil {
		return nil, errors.New("adapter registry is required")
	}

	workingLanguage := strings.TrimSpace(cfg.WorkingLanguage)
	if workingLanguage == "" {
		workingLanguage = "en"
	}
	inboxWorkers := cfg.InboxWorkers
	if inboxWorkers <= 0 {
		inboxWorkers = defaultInboxWorkers
	}

	o := &Orchestrator{
		store:           store,
		models:          models,
		facts:           facts,
		workingLanguage: workingLanguage,
		inboxWorkers:    inboxWorkers,
		now:             time.Now,
	}

	graphRunner, err := o.compileProcessMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// ProcessMessage runs the full analysis pipeline. When persist is set, the
// turn is written to the store; a storage failure there is returned as the
// error while the analysis is still returned intact.
func (o *Orchestrator) ProcessMessage(ctx context.Context, clientID, message string, persist bool) (*contractx.MessageAnalysis, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		ClientID: clientID,
		Message:  message,
		Persist:  persist,
	})
	if err != nil {
		return nil, err
	}
	return out.Analysis, out.PersistErr
}

// AutoReply analyzes the message and produces a ready-to-send reply in the
// client's own language: tone precedence, best-reply generation, translate
// back, then tone adjustment on the translated text.
func (o *Orchestrator) AutoReply(ctx context.Context, clientID, message string, tone contractx.Tone) (*contractx.AutoReplyResult, error) {
	analysis, persistErr := o.ProcessMessage(ctx, clientID, message, true)
	if analysis == nil {
		return nil, persistErr
	}

	if tone == "" {
		tone = contractx.ToneFriendly
	}
	switch {
	case analysis.Sentiment.Sentiment.IsUpset():
		tone = contractx.ToneProfessional
	case analysis.Lead.Score == contractx.LeadHot:
		tone = contractx.TonePersuasive
	}

	translator := o.models.Translator()
	reply, err := o.models.Responder().GenerateBestReply(ctx, contractx.BestReplyRequest{
		Message:         analysis.TranslatedMessage,
		Sentiment:       analysis.Sentiment,
		Lead:            analysis.Lead,
		ContextSummary:  analysis.ClientContext.Summary,
		BusinessContext: o.facts.PromptContext(),
	})
	if err != nil {
		return nil, err
	}

	clientLanguage := analysis.DetectedLanguage
	if clientLanguage != o.workingLanguage && clientLanguage != contractx.LanguageUnknown {
		reply, err = translator.TranslateForClient(ctx, reply, clientLanguage)
		if err != nil {
			return nil, err
		}
	}

	// Tone runs last so the adjustment operates on the client's language.
	reply, err = translator.AdjustTone(ctx, reply, tone)
	if err != nil {
		return nil, err
	}

	if err := o.store.AppendMessage(ctx, clientID, memoryx.RoleAssistant, reply, ""); err != nil {
		persistErr = errors.Join(persistErr, err)
	}

	return &contractx.AutoReplyResult{
		ClientID:         clientID,
		OriginalMessage:  message,
		DetectedLanguage: analysis.DetectedLanguage,
		Sentiment:        analysis.Sentiment.Sentiment,
		Priority:         analysis.Sentiment.Priority,
		LeadScore:        analysis.Lead.Score,
		Reply:            reply,
		Analysis:         analysis,
	}, persistErr
}

// PrepareResponse readies a human-written reply for sending: adjust tone,
// translate into the client's stored language, persist the assistant turn.
func (o *Orchestrator) PrepareResponse(ctx context.Context, clientID, response string, tone contractx.Tone) (*contractx.PreparedResponse, error) {
	snapshot, err := o.store.GetContext(ctx, clientID)
	if err != nil {
		return nil, err
	}
	clientLanguage := o.workingLanguage
	if snapshot.Client != nil && snapshot.Client.Language != "" {
		clientLanguage = snapshot.Client.Language
	}

	translator := o.models.Translator()
	adjusted, err := translator.AdjustTone(ctx, response, tone)
	if err != nil {
		return nil, err
	}
	translated, err := translator.TranslateForClient(ctx, adjusted, clientLanguage)
	if err != nil {
		return nil, err
	}

	if err := o.store.AppendMessage(ctx, clientID, memoryx.RoleAssistant, response, ""); err != nil {
		return nil, err
	}

	return &contractx.PreparedResponse{
		Original:       response,
		AdjustedTone:   adjusted,
		Translated:     translated,
		ClientLanguage: clientLanguage,
		ReadyToSend:    translated,
	}, nil
}

// InboxOverview analyzes a batch without persistence and prioritizes it.
// Messages are independent, so pipelines run concurrently under a bounded
// worker pool; a failed message is dropped from the overview, not fatal.
func (o *Orchestrator) InboxOverview(ctx context.Context, messages []InboxMessage) (*contractx.InboxOverview, error) {
	results := make([]*contractx.MessageAnalysis, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.inboxWorkers)
	for i, msg := range messages {
		i, msg := i, msg
		g.Go(func() error {
			analysis, err := o.ProcessMessage(gctx, msg.ClientID, msg.Content, false)
			if err != nil {
				log.Warn().Err(err).Str("client_id", msg.ClientID).Str("message_id", msg.ID).
					Msg("inbox message analysis failed, skipping")
				return nil
			}
			analysis.MessageID = msg.ID
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analyzed := make([]*contractx.MessageAnalysis, 0, len(results))
	for _, analysis := range results {
		if analysis != nil {
			analyzed = append(analyzed, analysis)
		}
	}

	sortInbox(analyzed)

	overview := &contractx.InboxOverview{
		TotalMessages:    len(analyzed),
		PrioritizedInbox: analyzed,
	}
	for _, analysis := range analyzed {
		if analysis.RequiresImmediateAttention {
			overview.Urgent++
		}
		if analysis.Lead.Score == contractx.LeadHot {
			overview.HotLeads++
		}
		if analysis.Sentiment.Category == contractx.CategoryComplaint {
			overview.Complaints++
		}
	}
	return overview, nil
}

// sortInbox orders analyses descending by urgency, then priority, then
// intent. Equal keys keep arrival order.
func sortInbox(analyzed []*contractx.MessageAnalysis) {
	sort.SliceStable(analyzed, func(i, j int) bool {
		a, b := analyzed[i], analyzed[j]
		if a.RequiresImmediateAttention != b.RequiresImmediateAttention {
			return a.RequiresImmediateAttention
		}
		if a.Sentiment.Priority != b.Sentiment.Priority {
			return a.Sentiment.Priority > b.Sentiment.Priority
		}
		return a.Lead.IntentLevel > b.Lead.IntentLevel
	})
}

// QuickAnalyze is the cheap path: three single-purpose probes, no history,
// no persistence.
func (o *Orchestrator) QuickAnalyze(ctx context.Context, message string) (*contractx.QuickAnalysis, error) {
	analyzer := o.models.Sentiment()

	sentiment, err := analyzer.QuickSentiment(ctx, message)
	if err != nil {
		return nil, err
	}
	priority, err := analyzer.QuickPriority(ctx, message)
	if err != nil {
		return nil, err
	}
	category, err := analyzer.Categorize(ctx, message)
	if err != nil {
		return nil, err
	}

	return &contractx.QuickAnalysis{
		Sentiment:      sentiment,
		Priority:       priority,
		Category:       category,
		NeedsAttention: priority >= 8 || sentiment.IsUpset(),
	}, nil
}

// LearnFromResponse records a chosen reply in the durable style store.
func (o *Orchestrator) LearnFromResponse(ctx context.Context, message, chosenResponse string) error {
	return o.store.SaveStyleExample(ctx, message, chosenResponse)
}

// QualificationQuestions derives which qualification gaps remain for the
// client and returns ready-made questions to close them.
func (o *Orchestrator) QualificationQuestions(ctx context.Context, clientID string) ([]string, error) {
	history, err := o.store.History(ctx, clientID, 20)
	if err != nil {
		return nil, err
	}

	conversation := make([]contractx.Turn, 0, len(history))
	for _, msg := range history {
		conversation = append(conversation, contractx.Turn{Role: msg.Role, Content: msg.Content})
	}

	qualifier := o.models.Qualifier()
	missing, err := qualifier.MissingQualificationInfo(ctx, conversation)
	if err != nil {
		return nil, err
	}
	return qualifier.QualificationQuestions(missing), nil
}
