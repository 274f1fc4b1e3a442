package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"gastos/internal/core"
	"gastos/internal/memory"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func mustInsert(t *testing.T, store *memory.Store, tx core.Transaction) string {
	t.Helper()
	id, err := store.InsertTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	return id
}

func nowStamp() time.Time {
	return time.Now()
}
