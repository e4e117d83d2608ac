package settle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAll_SettlesIndependently(t *testing.T) {
	boom := errors.New("boom")
	var finished atomic.Int32

	results := All(context.Background(),
		func(ctx context.Context) (int, error) {
			return 0, boom
		},
		func(ctx context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			finished.Add(1)
			return 2, nil
		},
		func(ctx context.Context) (int, error) {
			finished.Add(1)
			return 3, nil
		},
	)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if !errors.Is(results[0].Err, boom) {
		t.Errorf("results[0].Err = %v, want boom", results[0].Err)
	}
	if !results[1].OK() || results[1].Value != 2 {
		t.Errorf("results[1] = %+v, want 2", results[1])
	}
	if !results[2].OK() || results[2].Value != 3 {
		t.Errorf("results[2] = %+v, want 3", results[2])
	}
	if finished.Load() != 2 {
		t.Errorf("finished = %d, a failure must not stop the other operations", finished.Load())
	}
}

func TestGo_RunsConcurrently(t *testing.T) {
	start := time.Now()
	a := Go(context.Background(), func(ctx context.Context) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "a", nil
	})
	b := Go(context.Background(), func(ctx context.Context) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return "b", nil
	})

	if a.Wait().Value != "a" || b.Wait().Value != "b" {
		t.Fatal("unexpected values")
	}
	if elapsed := time.Since(start); elapsed > 190*time.Millisecond {
		t.Errorf("elapsed = %v, operations did not overlap", elapsed)
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		panic("bad")
	})

	res := f.Wait()
	var pe *PanicError
	if !errors.As(res.Err, &pe) {
		t.Fatalf("Err = %v, want *PanicError", res.Err)
	}
	if pe.Value != "bad" {
		t.Errorf("Value = %v", pe.Value)
	}
}
