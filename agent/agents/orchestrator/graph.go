package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/amilie-studio/inbox-agent/agent/nodes"
)

func (o *Orchestrator) compileProcessMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadContext(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_context: %w", err)
	}

	if err := graph.AddLambdaNode("translate_inbound",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.TranslateInbound(ctx, in, o.models.Translator(), o.workingLanguage)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node translate_inbound: %w", err)
	}

	if err := graph.AddLambdaNode("analyze_sentiment",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AnalyzeSentiment(ctx, in, o.models.Sentiment())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node analyze_sentiment: %w", err)
	}

	if err := graph.AddLambdaNode("score_lead",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ScoreLead(ctx, in, o.models.Qualifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node score_lead: %w", err)
	}

	if err := graph.AddLambdaNode("suggest_replies",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SuggestReplies(ctx, in, o.models.Responder())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node suggest_replies: %w", err)
	}

	if err := graph.AddLambdaNode("detect_signals",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DetectSignals(ctx, in, o.models.Qualifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node detect_signals: %w", err)
	}

	if err := graph.AddLambdaNode("persist_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PersistTurn(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_turn: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_context"},
		{"load_context", "translate_inbound"},
		{"translate_inbound", "analyze_sentiment"},
		{"analyze_sentiment", "score_lead"},
		{"score_lead", "suggest_replies"},
		{"suggest_replies", "detect_signals"},
		{"detect_signals", "persist_turn"},
		{"persist_turn", "finalize_result"},
		{"finalize_result", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.process_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
