package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"

	"fintrack/internal/core"
)

// fakeSheets serves the two Values endpoints used by Append.
type fakeSheets struct {
	mu      sync.Mutex
	rows    [][]any
	updates []string
	inputs  []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !strings.Contains(r.URL.Path, "/spreadsheets/sheet-id/values/") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"values": f.rows})
	case http.MethodPut:
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rng := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.updates = append(f.updates, rng)
		f.inputs = append(f.inputs, r.URL.Query().Get("valueInputOption"))
		f.rows = append(f.rows, body.Values...)
		json.NewEncoder(w).Encode(map[string]any{"updatedRange": rng})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), Config{SpreadsheetID: "sheet-id", SheetName: "Transactions"},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_Append(t *testing.T) {
	fake := &fakeSheets{rows: [][]any{{"Date"}, {"01-03-2024"}}}
	c := newTestClient(t, fake)

	tx := core.Transaction{
		Date:        core.NewDate(2024, 3, 15),
		Amount:      decimal.RequireFromString("100"),
		Category:    core.Income,
		Description: "salary",
	}
	ref, err := c.Append(context.Background(), tx)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "Transactions!A3:D3" {
		t.Errorf("ref = %q, want Transactions!A3:D3", ref)
	}
	if len(fake.updates) != 1 || fake.updates[0] != "Transactions!A3:D3" {
		t.Errorf("updates = %v", fake.updates)
	}
	if fake.inputs[0] != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q, want USER_ENTERED", fake.inputs[0])
	}
	last := fake.rows[len(fake.rows)-1]
	if len(last) != 4 || last[0] != "15-03-2024" || last[1] != "100.00" || last[2] != "Income" || last[3] != "salary" {
		t.Errorf("written row = %v", last)
	}
}

func TestClient_Append_EmptySheetWritesHeader(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	tx := core.Transaction{Date: core.NewDate(2024, 1, 2), Amount: decimal.NewFromInt(5), Category: core.Expense}
	ref, err := c.Append(context.Background(), tx)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "Transactions!A2:D2" {
		t.Errorf("ref = %q, want Transactions!A2:D2", ref)
	}
	if len(fake.updates) != 2 || fake.updates[0] != "Transactions!A1:D1" {
		t.Fatalf("updates = %v", fake.updates)
	}
	if fake.rows[0][0] != "Date" || fake.rows[0][3] != "Description" {
		t.Errorf("header = %v", fake.rows[0])
	}
}

func TestClient_Append_Validation(t *testing.T) {
	c := &Client{spreadsheetID: "test"}

	_, err := c.Append(context.Background(), core.Transaction{Amount: decimal.NewFromInt(1), Category: core.Income})
	if !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got: %v", err)
	}

	_, err = c.Append(context.Background(), core.Transaction{Date: core.NewDate(2024, 1, 1), Category: core.Income})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected uninitialized service error, got: %v", err)
	}
}

func TestNewClient_MissingSpreadsheetID(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	if err == nil || err.Error() != "missing spreadsheet ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClient_MissingCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClient_UnreadableCredentialsFile(t *testing.T) {
	_, err := NewClient(context.Background(), Config{SpreadsheetID: "id", ServiceAccountFile: "/non/existent.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}
