package scan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jerilmartin/rankprobe/internal/technical"
)

// recordingNotifier captures every scan handed to it.
type recordingNotifier struct {
	mu    sync.Mutex
	scans []Scan
}

func (n *recordingNotifier) ScanFinished(_ context.Context, sc Scan) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scans = append(n.scans, sc)

	return nil
}

func (n *recordingNotifier) snapshot() []Scan {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Scan, len(n.scans))
	copy(out, n.scans)

	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func waitForTerminal(t *testing.T, store Store, id string) Scan {
	t.Helper()

	var sc Scan
	waitFor(t, func() bool {
		var ok bool
		sc, ok = store.Get(id)
		return ok && sc.Status.Terminal()
	})

	return sc
}

func TestRunnerSubmitAndComplete(t *testing.T) {
	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer siteSrv.Close()

	store := NewMemoryStore(10)
	pipeline := NewPipeline(
		WithTechnicalChecker(technical.NewChecker(
			technical.WithBaseURL(siteSrv.URL),
			technical.WithDNSLookups(false),
		)),
	)
	notifier := &recordingNotifier{}

	runner := NewRunner(store, pipeline,
		WithWorkers(1),
		WithScanTimeout(10*time.Second),
		WithNotifier(notifier),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)

	id, err := runner.Submit("example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, ok := store.Get(id)
	if !ok {
		t.Fatal("expected the scan to be stored on submit")
	}
	if created.URL != "https://example.com" || created.Domain != "example.com" {
		t.Errorf("unexpected target %q (%q)", created.URL, created.Domain)
	}

	sc := waitForTerminal(t, store, id)

	if sc.Status != StatusComplete {
		t.Fatalf("expected %s, got %s (%s)", StatusComplete, sc.Status, sc.ErrorMessage)
	}
	if sc.Progress != 100 {
		t.Errorf("expected progress 100, got %d", sc.Progress)
	}
	if sc.CurrentStep != "" {
		t.Errorf("expected no current step, got %q", sc.CurrentStep)
	}
	if sc.StartedAt == nil || sc.CompletedAt == nil {
		t.Error("expected start and completion timestamps")
	}
	if sc.Result == nil {
		t.Fatal("expected a result on the completed scan")
	}
	if sc.Result.HealthScore != 25 {
		t.Errorf("expected health score 25 from the technical probe alone, got %d", sc.Result.HealthScore)
	}

	waitFor(t, func() bool { return len(notifier.snapshot()) == 1 })

	notified := notifier.snapshot()[0]
	if notified.ID != id || notified.Status != StatusComplete {
		t.Errorf("unexpected notification %+v", notified)
	}

	cancel()
	runner.Wait()
}

func TestRunnerScanFails(t *testing.T) {
	store := NewMemoryStore(10)
	notifier := &recordingNotifier{}

	runner := NewRunner(store, NewPipeline(),
		WithWorkers(1),
		WithScanTimeout(10*time.Second),
		WithNotifier(notifier),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)

	id, err := runner.Submit("example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sc := waitForTerminal(t, store, id)

	if sc.Status != StatusFailed {
		t.Fatalf("expected %s, got %s", StatusFailed, sc.Status)
	}
	if !strings.Contains(sc.ErrorMessage, "target unreachable") {
		t.Errorf("unexpected error message %q", sc.ErrorMessage)
	}
	if sc.Result != nil {
		t.Error("expected no result on a failed scan")
	}

	waitFor(t, func() bool { return len(notifier.snapshot()) == 1 })

	if notified := notifier.snapshot()[0]; notified.Status != StatusFailed {
		t.Errorf("expected a failure notification, got %+v", notified)
	}

	cancel()
	runner.Wait()
}

func TestRunnerSubmitInvalidTarget(t *testing.T) {
	store := NewMemoryStore(10)
	runner := NewRunner(store, NewPipeline())

	if _, err := runner.Submit("localhost"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected no stored scan for an invalid target, got %d", store.Len())
	}
}

func TestRunnerQueueFull(t *testing.T) {
	store := NewMemoryStore(10)

	// Never started, so nothing drains the queue.
	runner := NewRunner(store, NewPipeline(), WithQueueSize(1))

	if _, err := runner.Submit("example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := runner.Submit("example.org")
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("expected the rejected scan to be removed, got %d stored", store.Len())
	}
}
