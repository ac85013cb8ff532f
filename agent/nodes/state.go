package pipelinenode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidClient  = errors.New("client id is empty")
)

type GraphInput struct {
	ClientID  string
	MessageID string
	Message   string
	Persist   bool
}

type GraphOutput struct {
	Analysis *contractx.MessageAnalysis

	// PersistErr reports a storage failure from the persistence stage; the
	// analysis is complete and valid regardless.
	PersistErr error
}

// GraphState accumulates every stage's output while a message moves through
// the pipeline. Nodes mutate it in place and pass it on.
type GraphState struct {
	ClientID  string
	MessageID string
	Message   string
	Persist   bool
	Now       time.Time

	Snapshot    *memoryx.Context
	Translation contractx.Translation
	Sentiment   contractx.SentimentAnalysis
	Lead        contractx.LeadQualification
	Signals     contractx.BuyingSignals
	Suggestions []string

	// PersistErr carries a storage failure out of the pipeline without
	// discarding the computed analysis.
	PersistErr error
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return nil, ErrInvalidClient
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		ClientID:  clientID,
		MessageID: strings.TrimSpace(in.MessageID),
		Message:   message,
		Persist:   in.Persist,
		Now:       nowFn().UTC(),
	}, nil
}
