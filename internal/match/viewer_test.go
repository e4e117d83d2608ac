package match

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote/remotetest"
)

func TestViewer_Lifecycle(t *testing.T) {
	srv := remotetest.New(t)
	fake := newFakeMatches()
	fake.add("m1", "candidate")
	fake.add("m2", "candidate")
	fake.install(srv)
	v := NewViewer(newTestService(t, srv), testSession)
	ctx := context.Background()

	if v.State() != StateNoCandidate {
		t.Fatalf("initial state = %s", v.State())
	}
	if _, err := v.Decide(ctx, domain.Accept); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Decide() before Load error = %v", err)
	}

	if err := v.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v.State() != StateHasCandidate || v.Current().MatchID != "m1" {
		t.Fatalf("state = %s current = %+v", v.State(), v.Current())
	}

	out, err := v.Decide(ctx, domain.Reject)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if v.State() != StateDecided || !out.Applied || out.MatchID != "m1" {
		t.Errorf("state = %s outcome = %+v", v.State(), out)
	}
	if v.Current() != nil {
		t.Error("Current() should be nil once decided")
	}

	if err := v.Load(ctx); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if v.Current().MatchID != "m2" {
		t.Errorf("next candidate = %+v, want m2", v.Current())
	}
}

func TestViewer_EmptyPool(t *testing.T) {
	srv := remotetest.New(t)
	newFakeMatches().install(srv)
	v := NewViewer(newTestService(t, srv), testSession)

	err := v.Load(context.Background())
	if !errors.Is(err, apierr.ErrMatchCandidateEmpty) {
		t.Fatalf("Load() error = %v", err)
	}
	if v.State() != StateNoCandidate {
		t.Errorf("state = %s, want no_candidate", v.State())
	}
}

func TestViewer_AmbiguousDecision(t *testing.T) {
	srv := remotetest.New(t)
	srv.Handle(http.MethodGet, "/matchs", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, remotetest.Page(remotetest.Match("m1", "")))
	})
	srv.Handle(http.MethodPut, "/matchs/m1/request-transition", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	v := NewViewer(newTestService(t, srv), testSession)
	ctx := context.Background()

	if err := v.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	out, err := v.Decide(ctx, domain.Accept)
	if !errors.Is(err, ErrSwipeOutcomeUnknown) {
		t.Fatalf("Decide() error = %v", err)
	}
	if v.State() != StateDecided || out.Applied {
		t.Errorf("state = %s outcome = %+v", v.State(), out)
	}
}

func TestViewer_RefusedDecisionKeepsCandidate(t *testing.T) {
	srv := remotetest.New(t)
	srv.Handle(http.MethodGet, "/matchs", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, remotetest.Page(remotetest.Match("m1", "")))
	})
	srv.Handle(http.MethodPut, "/matchs/m1/request-transition", func(w http.ResponseWriter, r *http.Request) {
		remotetest.Error(w, http.StatusUnprocessableEntity, "INVALID_TRANSITION", "no")
	})
	v := NewViewer(newTestService(t, srv), testSession)
	ctx := context.Background()

	if err := v.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := v.Decide(ctx, domain.Accept); err == nil {
		t.Fatal("Decide() should fail")
	}
	if v.State() != StateHasCandidate || v.Current() == nil {
		t.Errorf("state = %s, want has_candidate", v.State())
	}
}

func TestState_String(t *testing.T) {
	if StateDeciding.String() != "deciding" || State(9).String() != "state(9)" {
		t.Error("unexpected state names")
	}
}
