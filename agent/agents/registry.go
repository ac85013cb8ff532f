// Package agents wires the four capability adapters behind one registry.
package agents

import (
	qualifierx "github.com/amilie-studio/inbox-agent/agent/agents/qualifier"
	responderx "github.com/amilie-studio/inbox-agent/agent/agents/responder"
	sentimentx "github.com/amilie-studio/inbox-agent/agent/agents/sentiment"
	translatorx "github.com/amilie-studio/inbox-agent/agent/agents/translator"
	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	promptx "github.com/amilie-studio/inbox-agent/agent/prompt"
)

type registryImpl struct {
	translator contractx.Translator
	sentiment  contractx.SentimentAnalyzer
	qualifier  contractx.LeadQualifier
	responder  contractx.Responder
}

func (r *registryImpl) Translator() contractx.Translator       { return r.translator }
func (r *registryImpl) Sentiment() contractx.SentimentAnalyzer { return r.sentiment }
func (r *registryImpl) Qualifier() contractx.LeadQualifier     { return r.qualifier }
func (r *registryImpl) Responder() contractx.Responder         { return r.responder }

// NewRegistry builds all adapters over one shared completion client.
func NewRegistry(
	client contractx.CompletionClient,
	detector contractx.LanguageDetector,
	styles responderx.StyleSource,
	businessName string,
) contractx.Registry {
	prompts := promptx.LoadPromptSet()

	return &registryImpl{
		translator: translatorx.New(client, detector, prompts),
		sentiment:  sentimentx.New(client, prompts),
		qualifier:  qualifierx.New(client, prompts),
		responder:  responderx.New(client, prompts, styles, businessName),
	}
}
