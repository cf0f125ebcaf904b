package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestGroup_DoCollapsesConcurrentCalls(t *testing.T) {
	var g Group[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("current-round:39:2022", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "Regular Season - 26", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != "Regular Season - 26" {
				t.Errorf("unexpected value: %q", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestGroup_DoDoesNotCacheErrors(t *testing.T) {
	var g Group[int]
	calls := 0
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err, shared := g.Do("k", func() (int, error) {
			calls++
			return 0, boom
		})
		if !errors.Is(err, boom) || shared {
			t.Fatalf("unexpected result: err=%v shared=%v", err, shared)
		}
	}
	if calls != 2 {
		t.Fatalf("sequential calls must each execute, got %d", calls)
	}
}
