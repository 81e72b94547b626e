package handler

import (
	"sync"
	"testing"
	"time"
)

type recordingConn struct {
	mu      sync.Mutex
	written []liveResult
	entered chan struct{}
	block   chan struct{}
}

func (c *recordingConn) WriteJSON(v any) error {
	if c.block != nil {
		close(c.entered)
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v.(liveResult))
	return nil
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func TestLiveWriterDropsWritesAfterClose(t *testing.T) {
	conn := &recordingConn{}
	w := &liveWriter{conn: conn}

	if !w.write(liveResult{Seq: 1}) {
		t.Fatal("write before close was dropped")
	}
	w.close()
	if w.write(liveResult{Seq: 2}) {
		t.Fatal("write after close went through")
	}
	if conn.count() != 1 || conn.written[0].Seq != 1 {
		t.Fatalf("written = %+v", conn.written)
	}
}

func TestLiveWriterCloseWaitsForWriteInFlight(t *testing.T) {
	conn := &recordingConn{entered: make(chan struct{}), block: make(chan struct{})}
	w := &liveWriter{conn: conn}

	go w.write(liveResult{Seq: 1})
	<-conn.entered

	closed := make(chan struct{})
	go func() {
		w.close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("close returned while a write was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(conn.block)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close never returned")
	}
	if conn.count() != 1 {
		t.Fatalf("written = %d, want 1", conn.count())
	}
}
