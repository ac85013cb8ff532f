package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
)

// PersistTurn writes the turn when persistence was requested: the original
// (non-normalized) message, then the detected language, then the lead score.
// A failure is recorded on the state instead of aborting the pipeline, so
// the caller still receives the computed analysis.
func PersistTurn(ctx context.Context, in *GraphState, store memoryx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if !in.Persist {
		return in, nil
	}

	if err := store.AppendMessage(ctx, in.ClientID, memoryx.RoleClient, in.Message, ""); err != nil {
		in.PersistErr = err
		return in, nil
	}
	if err := store.UpsertClient(ctx, in.ClientID, "", in.Translation.SourceLanguage); err != nil {
		in.PersistErr = err
		return in, nil
	}
	if err := store.UpdateLeadScore(ctx, in.ClientID, string(in.Lead.Score)); err != nil {
		in.PersistErr = err
	}
	return in, nil
}
