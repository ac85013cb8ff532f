package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"

	"github.com/amilie-studio/inbox-agent/agent/agents"
	orchestratorx "github.com/amilie-studio/inbox-agent/agent/agents/orchestrator"
	businessx "github.com/amilie-studio/inbox-agent/agent/business"
	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
	memoryx "github.com/amilie-studio/inbox-agent/agent/memory"
	configx "github.com/amilie-studio/inbox-agent/pkg/config"
	convlogx "github.com/amilie-studio/inbox-agent/pkg/convlog"
	groqx "github.com/amilie-studio/inbox-agent/pkg/groq"
	langdetectx "github.com/amilie-studio/inbox-agent/pkg/langdetect"
	_ "github.com/amilie-studio/inbox-agent/pkg/logger/autoload"
)

type AppConfig struct {
	WorkingLanguage string `envconfig:"WORKING_LANGUAGE" split_words:"true" default:"en"`
	BusinessFile    string `envconfig:"BUSINESS_FILE" split_words:"true"`
}

var mode = flag.String("mode", "demo", "demo | auto | interactive")

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")

	facts := businessx.Default()
	if appCfg.BusinessFile != "" {
		loaded, err := businessx.Load(appCfg.BusinessFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", appCfg.BusinessFile).Msg("load business facts")
		}
		facts = loaded
	}

	store, err := memoryx.Open(ctx, *configx.MustNew[memoryx.Config]("DB"))
	if err != nil {
		log.Fatal().Err(err).Msg("open context store")
	}
	defer store.Close()

	client := groqx.MustNew(*configx.MustNew[groqx.Config]("GROQ"))
	models := agents.NewRegistry(client, langdetectx.New(), store, facts.Name)

	orch, err := orchestratorx.New(store, models, facts, orchestratorx.Config{
		WorkingLanguage: appCfg.WorkingLanguage,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	conversations := convlogx.New(*configx.MustNew[convlogx.Config]("CONVLOG"))
	defer conversations.Close()

	switch *mode {
	case "auto":
		runAutoReply(ctx, orch, facts, conversations)
	case "interactive":
		runInteractive(ctx, orch)
	default:
		runDemo(ctx, orch, conversations)
	}
}

var demoInbox = []orchestratorx.InboxMessage{
	{ID: "msg_001", ClientID: "user_123", Content: "How much for a logo?"},
	{ID: "msg_002", ClientID: "user_456", Content: "What's the delivery time for a VTuber model?"},
	{ID: "msg_003", ClientID: "user_789", Content: "Do you offer revisions?"},
}

func runDemo(ctx context.Context, orch *orchestratorx.Orchestrator, conversations *convlogx.Logger) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println("amilie - Auto Reply Demo")
	fmt.Println(rule)
	fmt.Println("\n[INBOX] Processing messages with auto-reply...")

	for _, msg := range demoInbox {
		fmt.Printf("\nFrom: %s\nMessage: %s\n", msg.ClientID, msg.Content)

		result, err := orch.AutoReply(ctx, msg.ClientID, msg.Content, contractx.ToneFriendly)
		if err != nil {
			log.Error().Err(err).Str("client_id", msg.ClientID).Msg("auto reply failed")
			continue
		}

		fmt.Printf("\n[ANALYSIS] Language: %s | Sentiment: %s | Lead: %s\n",
			result.DetectedLanguage, result.Sentiment, result.LeadScore)
		fmt.Printf("\n[AUTO-REPLY] %s\n", result.Reply)
		fmt.Println(strings.Repeat("-", 60))

		conversations.Record(msg.ClientID, msg.Content, result.Reply,
			string(result.Sentiment), string(result.LeadScore))
	}

	fmt.Println("\nDemo complete! Check the conversation log for history.")
	fmt.Println(rule)
}

func runAutoReply(ctx context.Context, orch *orchestratorx.Orchestrator, facts businessx.Facts, conversations *convlogx.Logger) {
	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println("amilie - Auto Reply Bot")
	fmt.Println(rule)
	fmt.Println("\n" + facts.PricingText())
	fmt.Println(facts.FAQText())
	fmt.Println("Commands: 'new' = new client | 'quit' = exit")
	fmt.Println(strings.Repeat("-", 60))

	in := bufio.NewScanner(os.Stdin)
	clientID := promptLine(in, "\nClient ID (or Enter for 'customer'): ", "customer")

	for {
		message := promptLine(in, fmt.Sprintf("\n[%s] Customer message: ", clientID), "")
		switch strings.ToLower(message) {
		case "quit":
			fmt.Println("\nGoodbye!")
			return
		case "new":
			clientID = promptLine(in, "New client ID: ", "customer")
			continue
		case "":
			continue
		}

		result, err := orch.AutoReply(ctx, clientID, message, contractx.ToneFriendly)
		if err != nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("auto reply failed")
			continue
		}

		fmt.Println("\n[ANALYSIS]")
		fmt.Printf("  Language: %s\n", result.DetectedLanguage)
		fmt.Printf("  Sentiment: %s\n", result.Sentiment)
		fmt.Printf("  Priority: %d/10\n", result.Priority)
		fmt.Printf("  Lead Score: %s\n", result.LeadScore)
		fmt.Printf("\n[AUTO-REPLY]\n  %s\n", result.Reply)

		if err := clipboard.WriteAll(result.Reply); err == nil {
			fmt.Println("\n[COPIED] Reply copied to clipboard.")
		} else {
			fmt.Println("\n[INFO] Copy the reply above manually.")
		}

		conversations.Record(clientID, message, result.Reply,
			string(result.Sentiment), string(result.LeadScore))
		fmt.Println(strings.Repeat("-", 60))
	}
}

func runInteractive(ctx context.Context, orch *orchestratorx.Orchestrator) {
	fmt.Println("\namilie - Interactive Mode")
	fmt.Println("Type 'quit' to exit")

	in := bufio.NewScanner(os.Stdin)
	clientID := promptLine(in, "\nEnter client ID (or Enter for 'test_client'): ", "test_client")

	for {
		message := promptLine(in, fmt.Sprintf("\n[%s] Enter message: ", clientID), "")
		if strings.EqualFold(message, "quit") {
			fmt.Println("Goodbye!")
			return
		}
		if message == "" {
			continue
		}

		analysis, err := orch.ProcessMessage(ctx, clientID, message, true)
		if analysis == nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("analysis failed")
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("client_id", clientID).Msg("turn not persisted")
		}

		fmt.Println("\n[ANALYSIS]")
		fmt.Printf("  Language: %s\n", analysis.DetectedLanguage)
		fmt.Printf("  Sentiment: %s (Priority: %d/10)\n", analysis.Sentiment.Sentiment, analysis.Sentiment.Priority)
		fmt.Printf("  Lead Score: %s\n", analysis.Lead.Score)
		fmt.Printf("  Action: %s\n", analysis.RecommendedAction)

		fmt.Println("\n[RESPONSES]")
		for i, suggestion := range analysis.SuggestedResponses {
			fmt.Printf("  %d. %s\n", i+1, suggestion)
		}

		choice := promptLine(in, "\nSelect response (1-3) or type custom, or Enter to skip: ", "")
		if choice == "" {
			continue
		}

		response := choice
		if idx, err := strconv.Atoi(choice); err == nil {
			if idx < 1 || idx > len(analysis.SuggestedResponses) {
				continue
			}
			response = analysis.SuggestedResponses[idx-1]
			if err := orch.LearnFromResponse(ctx, message, response); err != nil {
				log.Warn().Err(err).Msg("style example not saved")
			}
		}

		prepared, err := orch.PrepareResponse(ctx, clientID, response, contractx.ToneFriendly)
		if err != nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("prepare response failed")
			continue
		}
		fmt.Printf("\n[SEND] Ready to send: %s\n", prepared.ReadyToSend)

		if err := clipboard.WriteAll(prepared.ReadyToSend); err == nil {
			fmt.Println("[COPIED] Reply copied to clipboard.")
		}
	}
}

func promptLine(in *bufio.Scanner, prompt, fallback string) string {
	fmt.Print(prompt)
	if !in.Scan() {
		return "quit"
	}
	line := strings.TrimSpace(in.Text())
	if line == "" {
		return fallback
	}
	return line
}
