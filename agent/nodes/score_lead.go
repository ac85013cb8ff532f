package pipelinenode

import (
	"context"
	"fmt"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
)

// ScoreLead qualifies the lead over the stored history plus the incoming
// message appended as a transient client turn (not yet persisted).
func ScoreLead(ctx context.Context, in *GraphState, qualifier contractx.LeadQualifier) (*GraphState, error) {
	if in == nil || in.Snapshot == nil {
		return nil, fmt.Errorf("%w: snapshot is nil", contractx.ErrValidation)
	}

	conversation := make([]contractx.Turn, 0, len(in.Snapshot.RecentHistory)+1)
	for _, msg := range in.Snapshot.RecentHistory {
		conversation = append(conversation, contractx.Turn{Role: msg.Role, Content: msg.Content})
	}
	conversation = append(conversation, contractx.Turn{
		Role:    memoryx.RoleClient,
		Content: in.Translation.Translated,
	})

	lead, err := qualifier.ScoreLead(ctx, conversation)
	if err != nil {
		return nil, err
	}
	in.Lead = lead
	return in, nil
}
