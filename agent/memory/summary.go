package memory

import (
	"fmt"
	"sort"
	"strings"
)

// NoHistorySummary is the fixed marker for a client with no stored state.
const NoHistorySummary = "New client, no history"

// BuildSummary renders the one-line context summary from a snapshot's parts.
// Field order is fixed: name, language, lead score, details (sorted by key),
// order count + last order, history count. Detail keys are sorted so the
// summary is reproducible from the same inputs.
func BuildSummary(client *Client, details map[string]string, history []Message, orders []Order) string {
	var parts []string

	if client != nil {
		if client.Name != "" {
			parts = append(parts, "Client: "+client.Name)
		}
		if client.Language != "" {
			parts = append(parts, "Language: "+client.Language)
		}
		if client.LeadScore != "" {
			parts = append(parts, "Lead score: "+client.LeadScore)
		}
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+details[k])
		}
	}

	if len(orders) > 0 {
		parts = append(parts, fmt.Sprintf("Orders: %d total", len(orders)))
		last := orders[0]
		parts = append(parts, fmt.Sprintf("Last order: %s (%s)", last.Product, last.Status))
	}

	if len(history) > 0 {
		parts = append(parts, fmt.Sprintf("Conversation history: %d messages", len(history)))
	}

	if len(parts) == 0 {
		return NoHistorySummary
	}
	return strings.Join(parts, " | ")
}
