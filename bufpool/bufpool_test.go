package bufpool

import (
	"context"
	"testing"
	"time"

	"github.com/ausocean/stitch360/geom"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := New(2, geom.NV12, 16, 8)
	ctx := context.Background()

	a, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if p.InUse() != 1 {
		t.Fatalf("InUse = %d, want 1", p.InUse())
	}

	b, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if p.InUse() != 2 {
		t.Fatalf("InUse = %d, want 2", p.InUse())
	}

	p.Release(a)
	p.Release(b)
	if p.InUse() != 0 {
		t.Fatalf("InUse = %d, want 0 after release", p.InUse())
	}
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	p := New(1, geom.NV12, 16, 8)
	ctx := context.Background()

	f, err := p.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	done := make(chan struct{})
	go func() {
		g, err := p.Acquire(context.Background())
		if err != nil {
			t.Errorf("second Acquire: %v", err)
			return
		}
		p.Release(g)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Acquire returned before the pool had any free buffer")
	case <-time.After(20 * time.Millisecond):
	}

	p.Release(f)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Acquire did not unblock after Release")
	}
}

func TestAcquireRespectsContextCancellation(t *testing.T) {
	p := New(1, geom.NV12, 16, 8)
	ctx := context.Background()
	if _, err := p.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Acquire(cctx); err == nil {
		t.Fatal("expected Acquire to return an error for a canceled context")
	}
}
