package memory

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleClient    = "client"
	RoleAssistant = "assistant"

	DefaultChannel = "instagram"
)

// Client is the durable per-client profile row.
type Client struct {
	bun.BaseModel `bun:"table:clients"`

	ClientID    string    `bun:"client_id,pk" json:"client_id"`
	Name        string    `bun:"name" json:"name,omitempty"`
	Language    string    `bun:"language" json:"language,omitempty"`
	LeadScore   string    `bun:"lead_score" json:"lead_score,omitempty"`
	Notes       string    `bun:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	LastContact time.Time `bun:"last_contact" json:"last_contact"`
}

// Detail is one learned (client, key) -> value fact. Rows are append-only;
// the newest row per key shadows the older ones.
type Detail struct {
	bun.BaseModel `bun:"table:client_details"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	ClientID  string    `bun:"client_id" json:"client_id"`
	Key       string    `bun:"key" json:"key"`
	Value     string    `bun:"value" json:"value"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Message is one immutable conversation turn.
type Message struct {
	bun.BaseModel `bun:"table:conversations"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	ClientID  string    `bun:"client_id" json:"client_id"`
	Role      string    `bun:"role" json:"role"`
	Content   string    `bun:"content" json:"content"`
	Channel   string    `bun:"channel" json:"channel"`
	Timestamp time.Time `bun:"timestamp,nullzero,default:current_timestamp" json:"timestamp"`
}

// Order is one transaction attempt, append-only.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	ClientID  string    `bun:"client_id" json:"client_id"`
	Product   string    `bun:"product" json:"product"`
	Amount    float64   `bun:"amount" json:"amount"`
	Status    string    `bun:"status" json:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// StyleExample is one chosen reply retained for style learning. The table is
// a bounded ring: inserts prune the oldest rows beyond the cap.
type StyleExample struct {
	bun.BaseModel `bun:"table:style_examples"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	Inquiry   string    `bun:"inquiry" json:"inquiry"`
	Response  string    `bun:"response" json:"response"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Context is the derived read-only snapshot handed to the orchestrator.
// It is computed on demand and never persisted; Summary is a pure function
// of the other fields.
type Context struct {
	Client        *Client           `json:"client"`
	Details       map[string]string `json:"details"`
	RecentHistory []Message         `json:"recent_history"`
	Orders        []Order           `json:"orders"`
	Summary       string            `json:"summary"`
}
