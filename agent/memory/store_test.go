package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTestStore(t *testing.T) *BunStore {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	store, err := NewWithDB(context.Background(), bun.NewDB(sqldb, sqlitedialect.New()))
	if err != nil {
		t.Fatalf("NewWithDB() error = %v", err)
	}

	// Deterministic, strictly increasing clock.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return store
}

func TestUpsertClientIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertClient(ctx, "user_1", "Ana", "es"); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	first, err := store.GetClient(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}

	if err := store.UpsertClient(ctx, "user_1", "Ana", "es"); err != nil {
		t.Fatalf("UpsertClient() second call error = %v", err)
	}
	second, err := store.GetClient(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}

	if second.Name != "Ana" || second.Language != "es" {
		t.Fatalf("client = %+v, want Ana/es", second)
	}
	if second.LastContact.Before(first.LastContact) {
		t.Fatalf("last_contact went backwards: %v -> %v", first.LastContact, second.LastContact)
	}
}

func TestUpsertClientKeepsFieldsOnEmptyUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertClient(ctx, "user_1", "Ana", "es"); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	// Empty fields must not wipe stored values.
	if err := store.UpsertClient(ctx, "user_1", "", ""); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}

	client, err := store.GetClient(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if client.Name != "Ana" || client.Language != "es" {
		t.Fatalf("client = %+v, want name/language preserved", client)
	}
}

func TestGetClientUnknownReturnsNil(t *testing.T) {
	store := newTestStore(t)

	client, err := store.GetClient(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if client != nil {
		t.Fatalf("GetClient() = %+v, want nil", client)
	}
}

func TestDetailLatestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetDetail(ctx, "user_1", "budget", "$300"); err != nil {
		t.Fatalf("SetDetail() error = %v", err)
	}
	if err := store.SetDetail(ctx, "user_1", "budget", "$500"); err != nil {
		t.Fatalf("SetDetail() error = %v", err)
	}

	value, ok, err := store.GetDetail(ctx, "user_1", "budget")
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if !ok || value != "$500" {
		t.Fatalf("GetDetail() = %q/%v, want $500/true", value, ok)
	}

	details, err := store.AllDetails(ctx, "user_1")
	if err != nil {
		t.Fatalf("AllDetails() error = %v", err)
	}
	if details["budget"] != "$500" {
		t.Fatalf("AllDetails()[budget] = %q, want $500", details["budget"])
	}
}

func TestGetDetailAbsent(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.GetDetail(context.Background(), "user_1", "missing")
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if ok {
		t.Fatal("GetDetail() reported a value for an absent key")
	}
}

func TestSetDetailEnsuresClient(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetDetail(ctx, "unseen", "budget", "$100"); err != nil {
		t.Fatalf("SetDetail() error = %v", err)
	}
	client, err := store.GetClient(ctx, "unseen")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if client == nil {
		t.Fatal("SetDetail() did not create the client row")
	}
}

func TestHistoryChronologicalSuffix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := store.AppendMessage(ctx, "user_1", RoleClient, fmt.Sprintf("msg %d", i), ""); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	history, err := store.History(ctx, "user_1", 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("History() len = %d, want 3", len(history))
	}
	for i, want := range []string{"msg 3", "msg 4", "msg 5"} {
		if history[i].Content != want {
			t.Fatalf("history[%d] = %q, want %q", i, history[i].Content, want)
		}
	}
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp.Before(history[i-1].Timestamp) {
			t.Fatalf("history not non-decreasing at %d", i)
		}
	}
	if history[0].Channel != DefaultChannel {
		t.Fatalf("channel = %q, want %q", history[0].Channel, DefaultChannel)
	}
}

func TestOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AppendOrder(ctx, "user_1", "logo", 75, "pending"); err != nil {
		t.Fatalf("AppendOrder() error = %v", err)
	}
	if err := store.AppendOrder(ctx, "user_1", "banner", 60, "paid"); err != nil {
		t.Fatalf("AppendOrder() error = %v", err)
	}

	orders, err := store.Orders(ctx, "user_1")
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Orders() len = %d, want 2", len(orders))
	}
	if orders[0].Product != "banner" {
		t.Fatalf("orders[0] = %q, want banner", orders[0].Product)
	}
}

func TestGetContextSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot, err := store.GetContext(ctx, "fresh")
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if snapshot.Summary != NoHistorySummary {
		t.Fatalf("summary = %q, want %q", snapshot.Summary, NoHistorySummary)
	}

	if err := store.UpsertClient(ctx, "user_1", "Ana", "es"); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	snapshot, err = store.GetContext(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetContext() error = %v", err)
	}
	if !strings.HasPrefix(snapshot.Summary, "Client: Ana | Language: es") {
		t.Fatalf("summary = %q, want prefix %q", snapshot.Summary, "Client: Ana | Language: es")
	}
}

func TestBuildSummaryIsPure(t *testing.T) {
	client := &Client{ClientID: "user_1", Name: "Ana", Language: "es", LeadScore: "warm"}
	details := map[string]string{"budget": "$300", "deadline": "friday"}
	orders := []Order{{Product: "logo", Status: "paid"}}
	history := []Message{{Content: "hi"}}

	first := BuildSummary(client, details, history, orders)
	second := BuildSummary(client, details, history, orders)
	if first != second {
		t.Fatalf("BuildSummary not reproducible: %q vs %q", first, second)
	}
	if !strings.Contains(first, "budget: $300") || !strings.Contains(first, "Orders: 1 total") {
		t.Fatalf("summary missing parts: %q", first)
	}
}

func TestSearchClients(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertClient(ctx, "user_1", "Ana Torres", "es"); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	if err := store.SetDetail(ctx, "user_2", "interest", "vtuber model"); err != nil {
		t.Fatalf("SetDetail() error = %v", err)
	}
	// Two matching details must not duplicate the client.
	if err := store.SetDetail(ctx, "user_2", "note", "vtuber fan"); err != nil {
		t.Fatalf("SetDetail() error = %v", err)
	}

	byName, err := store.SearchClients(ctx, "ana")
	if err != nil {
		t.Fatalf("SearchClients() error = %v", err)
	}
	if len(byName) != 1 || byName[0].ClientID != "user_1" {
		t.Fatalf("SearchClients(ana) = %+v, want user_1", byName)
	}

	byDetail, err := store.SearchClients(ctx, "VTuber")
	if err != nil {
		t.Fatalf("SearchClients() error = %v", err)
	}
	if len(byDetail) != 1 || byDetail[0].ClientID != "user_2" {
		t.Fatalf("SearchClients(VTuber) = %+v, want user_2 once", byDetail)
	}
}

func TestUpdateLeadScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertClient(ctx, "user_1", "", ""); err != nil {
		t.Fatalf("UpsertClient() error = %v", err)
	}
	if err := store.UpdateLeadScore(ctx, "user_1", "hot"); err != nil {
		t.Fatalf("UpdateLeadScore() error = %v", err)
	}

	client, err := store.GetClient(ctx, "user_1")
	if err != nil {
		t.Fatalf("GetClient() error = %v", err)
	}
	if client.LeadScore != "hot" {
		t.Fatalf("lead_score = %q, want hot", client.LeadScore)
	}
}

func TestStyleExamplesBounded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < styleExampleCap+10; i++ {
		if err := store.SaveStyleExample(ctx, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)); err != nil {
			t.Fatalf("SaveStyleExample() error = %v", err)
		}
	}

	examples, err := store.RecentStyleExamples(ctx, 0)
	if err != nil {
		t.Fatalf("RecentStyleExamples() error = %v", err)
	}
	if len(examples) != styleExampleCap {
		t.Fatalf("len = %d, want %d", len(examples), styleExampleCap)
	}
	if examples[0].Inquiry != fmt.Sprintf("q%d", styleExampleCap+9) {
		t.Fatalf("examples[0] = %q, want newest", examples[0].Inquiry)
	}
}
