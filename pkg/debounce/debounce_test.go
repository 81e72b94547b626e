package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsOnlyLatest(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls atomic.Int32
	var last atomic.Value
	done := make(chan struct{})

	for _, q := range []string{"a", "as", "ash"} {
		q := q
		d.Do(func() {
			calls.Add(1)
			last.Store(q)
			close(done)
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
	time.Sleep(40 * time.Millisecond)

	if calls.Load() != 1 {
		t.Fatalf("calls = %d", calls.Load())
	}
	if last.Load() != "ash" {
		t.Fatalf("last = %v", last.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := New(10 * time.Millisecond)
	var ran atomic.Bool
	d.Do(func() { ran.Store(true) })
	d.Stop()
	time.Sleep(30 * time.Millisecond)
	if ran.Load() {
		t.Fatal("stopped function ran")
	}
}

func TestSequenceDropsStaleResults(t *testing.T) {
	var seq Sequence
	first := seq.Next()
	second := seq.Next()

	if seq.IsLatest(first) {
		t.Fatal("first request still latest")
	}
	if !seq.IsLatest(second) {
		t.Fatal("second request not latest")
	}
}

func TestSequenceConcurrent(t *testing.T) {
	var seq Sequence
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- seq.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for n := range seen {
		unique[n] = true
	}
	if len(unique) != 100 || !seq.IsLatest(100) {
		t.Fatalf("unique = %d", len(unique))
	}
}
