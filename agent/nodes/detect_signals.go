package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

func DetectSignals(ctx context.Context, in *GraphState, qualifier contractx.LeadQualifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	signals, err := qualifier.DetectBuyingSignals(ctx, in.Translation.Translated)
	if err != nil {
		return nil, err
	}
	in.Signals = signals
	return in, nil
}
