package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
)

// LoadContext fetches the pre-message snapshot. An unseen client id yields
// an empty snapshot, never an error.
func LoadContext(ctx context.Context, in *GraphState, store memoryx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	snapshot, err := store.GetContext(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	in.Snapshot = snapshot
	return in, nil
}
