package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

const suggestionCount = 3

// SuggestReplies asks for candidate replies against the snapshot summary.
func SuggestReplies(ctx context.Context, in *GraphState, responder contractx.Responder) (*GraphState, error) {
	if in == nil || in.Snapshot == nil {
		return nil, fmt.Errorf("%w: snapshot is nil", contractx.ErrValidation)
	}

	suggestions, err := responder.SuggestReplies(ctx, in.Translation.Translated, in.Snapshot.Summary, suggestionCount)
	if err != nil {
		return nil, err
	}
	in.Suggestions = suggestions
	return in, nil
}
