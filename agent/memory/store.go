package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrStorage       = errors.New("storage operation failed")
	ErrInvalidClient = errors.New("client id is empty")
)

const (
	defaultHistoryLimit = 10
	styleExampleCap     = 50
	writeStripes        = 32
)

// Store is the narrow persistence contract the orchestrator depends on.
// Lookups on an unknown client id return zero values, never errors.
type Store interface {
	UpsertClient(ctx context.Context, clientID, name, language string) error
	GetClient(ctx context.Context, clientID string) (*Client, error)
	SetDetail(ctx context.Context, clientID, key, value string) error
	GetDetail(ctx context.Context, clientID, key string) (string, bool, error)
	AllDetails(ctx context.Context, clientID string) (map[string]string, error)
	AppendMessage(ctx context.Context, clientID, role, content, channel string) error
	History(ctx context.Context, clientID string, limit int) ([]Message, error)
	AppendOrder(ctx context.Context, clientID, product string, amount float64, status string) error
	Orders(ctx context.Context, clientID string) ([]Order, error)
	UpdateLeadScore(ctx context.Context, clientID, score string) error
	GetContext(ctx context.Context, clientID string) (*Context, error)
	SearchClients(ctx context.Context, query string) ([]Client, error)
	SaveStyleExample(ctx context.Context, inquiry, response string) error
	RecentStyleExamples(ctx context.Context, limit int) ([]StyleExample, error)
}

type Config struct {
	Driver string `envconfig:"DRIVER" split_words:"true" default:"sqlite"`
	DSN    string `envconfig:"DSN" split_words:"true" default:"file:inbox-agent.db?_fk=1"`
}

// BunStore persists the four entity tables plus the style ring through bun.
// Writes for a single client id are serialized with a striped mutex; the
// "latest wins" detail semantics rely on that.
type BunStore struct {
	db    *bun.DB
	locks [writeStripes]sync.Mutex
	now   func() time.Time
}

var _ Store = (*BunStore)(nil)

// Open connects per Config and ensures the schema exists.
func Open(ctx context.Context, cfg Config) (*BunStore, error) {
	var db *bun.DB

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: open sqlite: %v", ErrStorage, err)
		}
		// sqlite handles one writer; a single conn avoids SQLITE_BUSY churn.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres", "pg":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrStorage, cfg.Driver)
	}

	store := &BunStore{db: db, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an existing bun.DB (tests use an in-memory sqlite one).
func NewWithDB(ctx context.Context, db *bun.DB) (*BunStore, error) {
	store := &BunStore{db: db, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (s *BunStore) initSchema(ctx context.Context) error {
	models := []any{
		(*Client)(nil),
		(*Detail)(nil),
		(*Message)(nil),
		(*Order)(nil),
		(*StyleExample)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table: %v", ErrStorage, err)
		}
	}
	return nil
}

func (s *BunStore) lockFor(clientID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return &s.locks[h.Sum32()%writeStripes]
}

func (s *BunStore) UpsertClient(ctx context.Context, clientID, name, language string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("%w: %v", ErrStorage, ErrInvalidClient)
	}

	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()
	return s.upsertClientLocked(ctx, clientID, name, language)
}

// upsertClientLocked creates the row if absent, otherwise updates only the
// non-empty fields and refreshes last_contact. Callers hold the client lock.
func (s *BunStore) upsertClientLocked(ctx context.Context, clientID, name, language string) error {
	now := s.now().UTC()
	client := &Client{
		ClientID:    clientID,
		Name:        name,
		Language:    language,
		CreatedAt:   now,
		LastContact: now,
	}

	q := s.db.NewInsert().
		Model(client).
		On("CONFLICT (client_id) DO UPDATE").
		Set("last_contact = EXCLUDED.last_contact")
	if name != "" {
		q = q.Set("name = EXCLUDED.name")
	}
	if language != "" {
		q = q.Set("language = EXCLUDED.language")
	}

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("%w: upsert client %s: %v", ErrStorage, clientID, err)
	}
	return nil
}

func (s *BunStore) GetClient(ctx context.Context, clientID string) (*Client, error) {
	client := new(Client)
	err := s.db.NewSelect().
		Model(client).
		Where("client_id = ?", clientID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get client %s: %v", ErrStorage, clientID, err)
	}
	return client, nil
}

func (s *BunStore) SetDetail(ctx context.Context, clientID, key, value string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("%w: %v", ErrStorage, ErrInvalidClient)
	}

	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.upsertClientLocked(ctx, clientID, "", ""); err != nil {
		return err
	}

	detail := &Detail{
		ClientID:  clientID,
		Key:       key,
		Value:     value,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(detail).Exec(ctx); err != nil {
		return fmt.Errorf("%w: set detail %s/%s: %v", ErrStorage, clientID, key, err)
	}
	return nil
}

func (s *BunStore) GetDetail(ctx context.Context, clientID, key string) (string, bool, error) {
	detail := new(Detail)
	err := s.db.NewSelect().
		Model(detail).
		Where("client_id = ?", clientID).
		Where("key = ?", key).
		OrderExpr("created_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get detail %s/%s: %v", ErrStorage, clientID, key, err)
	}
	return detail.Value, true, nil
}

func (s *BunStore) AllDetails(ctx context.Context, clientID string) (map[string]string, error) {
	var rows []Detail
	err := s.db.NewSelect().
		Model(&rows).
		Where("client_id = ?", clientID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: all details %s: %v", ErrStorage, clientID, err)
	}

	// Newer rows shadow older ones for the same key.
	details := make(map[string]string, len(rows))
	for _, row := range rows {
		details[row.Key] = row.Value
	}
	return details, nil
}

func (s *BunStore) AppendMessage(ctx context.Context, clientID, role, content, channel string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("%w: %v", ErrStorage, ErrInvalidClient)
	}
	if channel == "" {
		channel = DefaultChannel
	}

	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.upsertClientLocked(ctx, clientID, "", ""); err != nil {
		return err
	}

	msg := &Message{
		ClientID:  clientID,
		Role:      role,
		Content:   content,
		Channel:   channel,
		Timestamp: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return fmt.Errorf("%w: append message for %s: %v", ErrStorage, clientID, err)
	}
	return nil
}

// History returns the most recent limit messages in chronological order.
// Timestamp ties fall back to insertion order.
func (s *BunStore) History(ctx context.Context, clientID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var rows []Message
	err := s.db.NewSelect().
		Model(&rows).
		Where("client_id = ?", clientID).
		OrderExpr("timestamp DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: history %s: %v", ErrStorage, clientID, err)
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (s *BunStore) AppendOrder(ctx context.Context, clientID, product string, amount float64, status string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("%w: %v", ErrStorage, ErrInvalidClient)
	}

	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.upsertClientLocked(ctx, clientID, "", ""); err != nil {
		return err
	}

	order := &Order{
		ClientID:  clientID,
		Product:   product,
		Amount:    amount,
		Status:    status,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(order).Exec(ctx); err != nil {
		return fmt.Errorf("%w: append order for %s: %v", ErrStorage, clientID, err)
	}
	return nil
}

func (s *BunStore) Orders(ctx context.Context, clientID string) ([]Order, error) {
	var rows []Order
	err := s.db.NewSelect().
		Model(&rows).
		Where("client_id = ?", clientID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: orders %s: %v", ErrStorage, clientID, err)
	}
	return rows, nil
}

func (s *BunStore) UpdateLeadScore(ctx context.Context, clientID, score string) error {
	mu := s.lockFor(clientID)
	mu.Lock()
	defer mu.Unlock()

	_, err := s.db.NewUpdate().
		Model((*Client)(nil)).
		Set("lead_score = ?", score).
		Where("client_id = ?", clientID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: update lead score %s: %v", ErrStorage, clientID, err)
	}
	return nil
}

// GetContext assembles the on-demand snapshot: profile, latest details,
// last messages, all orders, and the derived summary line.
func (s *BunStore) GetContext(ctx context.Context, clientID string) (*Context, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	details, err := s.AllDetails(ctx, clientID)
	if err != nil {
		return nil, err
	}
	history, err := s.History(ctx, clientID, defaultHistoryLimit)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return &Context{
		Client:        client,
		Details:       details,
		RecentHistory: history,
		Orders:        orders,
		Summary:       BuildSummary(client, details, history, orders),
	}, nil
}

// SearchClients matches name, id, or any detail value by case-insensitive
// substring, de-duplicated by client id.
func (s *BunStore) SearchClients(ctx context.Context, query string) ([]Client, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var rows []Client
	err := s.db.NewSelect().
		Model(&rows).
		Distinct().
		Join("LEFT JOIN client_details AS d ON d.client_id = client.client_id").
		Where("lower(client.name) LIKE ? OR lower(client.client_id) LIKE ? OR lower(d.value) LIKE ?",
			pattern, pattern, pattern).
		OrderExpr("client.client_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: search clients %q: %v", ErrStorage, query, err)
	}
	return rows, nil
}

func (s *BunStore) SaveStyleExample(ctx context.Context, inquiry, response string) error {
	example := &StyleExample{
		Inquiry:   inquiry,
		Response:  response,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(example).Exec(ctx); err != nil {
		return fmt.Errorf("%w: save style example: %v", ErrStorage, err)
	}

	// Keep the ring bounded.
	_, err := s.db.NewDelete().
		Model((*StyleExample)(nil)).
		Where("id NOT IN (SELECT id FROM style_examples ORDER BY id DESC LIMIT ?)", styleExampleCap).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: prune style examples: %v", ErrStorage, err)
	}
	return nil
}

func (s *BunStore) RecentStyleExamples(ctx context.Context, limit int) ([]StyleExample, error) {
	if limit <= 0 || limit > styleExampleCap {
		limit = styleExampleCap
	}

	var rows []StyleExample
	err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: recent style examples: %v", ErrStorage, err)
	}
	return rows, nil
}
