package storage

import (
	"fmt"
	"testing"

	"github.com/verdantlabs/plantid/internal/models"
)

func TestBeginResolve(t *testing.T) {
	store := New()

	if state := store.Latest().State; state != models.StateIdle {
		t.Errorf("initial state = %q, want idle", state)
	}

	attempt, token := store.Begin("data:image/jpeg;base64,xx", "gemini", "test-model")
	if attempt.State != models.StateLoading {
		t.Errorf("state after Begin = %q, want loading", attempt.State)
	}
	if store.Latest().ID != attempt.ID {
		t.Error("Latest() does not reflect the new attempt")
	}

	record := &models.Record{Name: "Pothos", ScientificName: "Epipremnum aureum", Description: "A vine."}
	if !store.Resolve(token, record) {
		t.Fatal("Resolve() with current token reported stale")
	}

	latest := store.Latest()
	if latest.State != models.StateResult {
		t.Errorf("state after Resolve = %q, want result", latest.State)
	}
	if latest.Record != record {
		t.Error("resolved record not attached to the attempt")
	}
}

func TestFail(t *testing.T) {
	store := New()
	_, token := store.Begin("", "gemini", "test-model")

	if !store.Fail(token, "inference failed: connection refused") {
		t.Fatal("Fail() with current token reported stale")
	}

	latest := store.Latest()
	if latest.State != models.StateError {
		t.Errorf("state = %q, want error", latest.State)
	}
	if latest.Error != "inference failed: connection refused" {
		t.Errorf("Error = %q", latest.Error)
	}
	if latest.Record != nil {
		t.Error("failed attempt must not carry a record")
	}
}

func TestStaleResponseSuppressed(t *testing.T) {
	store := New()

	first, firstToken := store.Begin("", "gemini", "test-model")
	second, secondToken := store.Begin("", "gemini", "test-model")

	// The slow response for the superseded attempt arrives after the
	// newer attempt resolved; it must be discarded silently.
	newRecord := &models.Record{Name: "Monstera", ScientificName: "Monstera deliciosa", Description: "Split leaves."}
	if !store.Resolve(secondToken, newRecord) {
		t.Fatal("Resolve() for the latest attempt reported stale")
	}

	oldRecord := &models.Record{Name: "Pothos", ScientificName: "Epipremnum aureum", Description: "A vine."}
	if store.Resolve(firstToken, oldRecord) {
		t.Error("Resolve() accepted a superseded token")
	}
	if store.Fail(firstToken, "too late") {
		t.Error("Fail() accepted a superseded token")
	}

	latest := store.Latest()
	if latest.ID != second.ID {
		t.Error("Latest() no longer reflects the newest attempt")
	}
	if latest.Record.Name != "Monstera" {
		t.Errorf("latest record = %q, want Monstera", latest.Record.Name)
	}

	// The superseded attempt stays loading in history; it is never
	// partially mutated by the late response.
	stale, ok := store.Get(first.ID)
	if !ok {
		t.Fatal("superseded attempt missing from store")
	}
	if stale.State != models.StateLoading {
		t.Errorf("superseded attempt state = %q, want loading", stale.State)
	}
}

func TestAccessorsReturnSnapshots(t *testing.T) {
	store := New()

	begun, token := store.Begin("", "gemini", "test-model")
	latest := store.Latest()
	byID, _ := store.Get(begun.ID)
	history := store.History()

	record := &models.Record{Name: "Pothos", ScientificName: "Epipremnum aureum", Description: "A vine."}
	if !store.Resolve(token, record) {
		t.Fatal("Resolve() with current token reported stale")
	}

	// Attempts handed out before Resolve must not change under the
	// caller; only fresh reads see the new state.
	for name, attempt := range map[string]*models.Attempt{
		"Begin": begun, "Latest": latest, "Get": byID, "History": history[0],
	} {
		if attempt.State != models.StateLoading {
			t.Errorf("%s attempt mutated after Resolve: state = %q", name, attempt.State)
		}
		if attempt.Record != nil {
			t.Errorf("%s attempt mutated after Resolve: record attached", name)
		}
	}
	if store.Latest().State != models.StateResult {
		t.Error("fresh Latest() does not reflect the resolved state")
	}
}

func TestConcurrentReadsSeeConsistentState(t *testing.T) {
	store := New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, token := store.Begin("", "gemini", "test-model")
			if i%2 == 0 {
				store.Resolve(token, &models.Record{Name: "Pothos", ScientificName: "Epipremnum aureum", Description: "A vine."})
			} else {
				store.Fail(token, "inference failed: connection refused")
			}
		}
	}()

	// Poll while the writer runs. Every observed attempt must be in a
	// coherent state: a result always carries a record, an error always
	// carries a message and no record.
	assertCoherent := func(attempt *models.Attempt) {
		t.Helper()
		switch attempt.State {
		case models.StateResult:
			if attempt.Record == nil {
				t.Fatal("observed result state with no record")
			}
		case models.StateError:
			if attempt.Error == "" {
				t.Fatal("observed error state with no message")
			}
			if attempt.Record != nil {
				t.Fatal("observed record alongside an error")
			}
		}
	}

	for {
		select {
		case <-done:
			return
		default:
		}
		assertCoherent(store.Latest())
		for _, attempt := range store.History() {
			assertCoherent(attempt)
		}
	}
}

func TestHistoryNewestFirstAndBounded(t *testing.T) {
	store := New()

	var lastID string
	for i := 0; i < historyLimit+5; i++ {
		attempt, token := store.Begin("", "gemini", "test-model")
		store.Fail(token, fmt.Sprintf("err %d", i))
		lastID = attempt.ID
	}

	history := store.History()
	if len(history) != historyLimit {
		t.Fatalf("history length = %d, want %d", len(history), historyLimit)
	}
	if history[0].ID != lastID {
		t.Error("history is not newest first")
	}
}
