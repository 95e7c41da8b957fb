package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingFetcher struct {
	calls atomic.Int32
	value any
	err   error
}

func (f *countingFetcher) fetch(context.Context) (any, error) {
	f.calls.Add(1)
	return f.value, f.err
}

func TestReadFetchesOnceThenServesCache(t *testing.T) {
	c := New()
	defer c.Close()
	f := &countingFetcher{value: "v1"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := c.Read(ctx, "todos", f.fetch)
		if err != nil || v != "v1" {
			t.Fatalf("Read #%d = %v, %v", i, v, err)
		}
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
	if e := c.Snapshot("todos"); e.Status != StatusSuccess || !e.Fresh() || !e.HasData {
		t.Errorf("snapshot = %+v", e)
	}
}

func TestInvalidateDoesNotFetchButNextReadDoes(t *testing.T) {
	c := New()
	defer c.Close()
	f := &countingFetcher{value: 1}
	ctx := context.Background()

	if _, err := c.Read(ctx, "todos", f.fetch); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("todos")
	if n := f.calls.Load(); n != 1 {
		t.Fatalf("Invalidate fetched: calls = %d", n)
	}
	e := c.Snapshot("todos")
	if !e.Stale || e.Fresh() {
		t.Fatalf("entry not stale after invalidate: %+v", e)
	}
	if e.Data != 1 {
		t.Errorf("stale entry lost data: %+v", e)
	}

	f.value = 2
	v, err := c.Read(ctx, "todos", f.fetch)
	if err != nil || v != 2 {
		t.Fatalf("Read after invalidate = %v, %v", v, err)
	}
	if _, err := c.Read(ctx, "todos", f.fetch); err != nil {
		t.Fatal(err)
	}
	if n := f.calls.Load(); n != 2 {
		t.Errorf("fetch calls = %d, want exactly one refetch", n)
	}
}

func TestReadErrorKeepsPreviousData(t *testing.T) {
	c := New()
	defer c.Close()
	ctx := context.Background()
	good := &countingFetcher{value: "old"}
	if _, err := c.Read(ctx, "todos", good.fetch); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("todos")

	boom := errors.New("boom")
	bad := &countingFetcher{err: boom}
	if _, err := c.Read(ctx, "todos", bad.fetch); !errors.Is(err, boom) {
		t.Fatalf("Read err = %v, want boom", err)
	}
	e := c.Snapshot("todos")
	if e.Status != StatusError || !errors.Is(e.Err, boom) {
		t.Errorf("status = %v err = %v", e.Status, e.Err)
	}
	if got, ok := Data[string](e); !ok || got != "old" {
		t.Errorf("Data = %q, %v", got, ok)
	}

	// an errored entry is not fresh, so the next read fetches again
	if _, err := c.Read(ctx, "todos", good.fetch); err != nil {
		t.Fatal(err)
	}
	if n := good.calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestConcurrentReadsShareFetch(t *testing.T) {
	c := New()
	defer c.Close()
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Read(context.Background(), "todos", fetch)
	}()
	<-started
	if s := c.Snapshot("todos").Status; s != StatusLoading {
		t.Errorf("status during fetch = %v, want loading", s)
	}
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Read(context.Background(), "todos", fetch)
		}(i)
	}
	// let the late readers join the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
	for i, r := range results {
		if r != "shared" {
			t.Errorf("result[%d] = %v", i, r)
		}
	}
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	c := New()
	defer c.Close()
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "done", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Read(ctx, "todos", fetch)
		done <- err
	}()
	<-started
	cancel()
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("Read: %v", err)
	}
	if e := c.Snapshot("todos"); e.Status != StatusSuccess || e.Data != "done" {
		t.Errorf("entry = %+v, want success", e)
	}
}

func TestInvalidateDuringFetchKeepsEntryStale(t *testing.T) {
	c := New()
	defer c.Close()
	release := make(chan struct{})
	started := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		close(started)
		<-release
		return "v", nil
	}
	// seed the entry so Invalidate has something to mark
	if _, err := c.Read(context.Background(), "todos", func(context.Context) (any, error) { return "seed", nil }); err != nil {
		t.Fatal(err)
	}
	c.Invalidate("todos")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Read(context.Background(), "todos", fetch)
	}()
	<-started
	c.Invalidate("todos")
	close(release)
	<-done

	if e := c.Snapshot("todos"); !e.Stale {
		t.Errorf("entry fresh after racing invalidation: %+v", e)
	}
}

func TestSubscribeNotifiedOnInvalidate(t *testing.T) {
	c := New()
	ch, cancel := c.Subscribe("todos")
	other, cancelOther := c.Subscribe("other")
	defer cancelOther()

	c.Invalidate("todos")
	c.Invalidate("todos")
	select {
	case <-ch:
	default:
		t.Fatal("no wakeup after invalidate")
	}
	select {
	case <-ch:
		t.Fatal("burst of invalidations should coalesce into one wakeup")
	default:
	}
	select {
	case <-other:
		t.Fatal("subscriber of another key was woken")
	default:
	}

	cancel()
	if _, open := <-ch; open {
		t.Error("channel open after cancel")
	}
	cancel()
	c.Invalidate("todos")

	c.Close()
	if _, open := <-other; open {
		t.Error("channel open after Close")
	}
}

func TestSnapshotUnknownKeyIsIdle(t *testing.T) {
	c := New()
	defer c.Close()
	e := c.Snapshot("nope")
	if e.Status != StatusIdle || e.HasData {
		t.Errorf("snapshot = %+v", e)
	}
	if _, ok := Data[[]int](e); ok {
		t.Error("Data on idle entry reported ok")
	}
}

func TestTypedRead(t *testing.T) {
	c := New()
	defer c.Close()
	got, err := Read(context.Background(), c, "nums", func(context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})
	if err != nil || len(got) != 2 {
		t.Fatalf("Read = %v, %v", got, err)
	}
	if _, err := Read(context.Background(), c, "bad", func(context.Context) ([]int, error) {
		return nil, errors.New("x")
	}); err == nil {
		t.Error("expected error")
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		StatusIdle: "idle", StatusLoading: "loading", StatusSuccess: "success", StatusError: "error", Status(9): "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
