package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

// TranslateInbound normalizes the raw message into the pipeline's working
// language and records the detected source language.
func TranslateInbound(ctx context.Context, in *GraphState, translator contractx.Translator, targetLanguage string) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	translation, err := translator.Translate(ctx, in.Message, targetLanguage)
	if err != nil {
		return nil, err
	}
	in.Translation = translation
	return in, nil
}
