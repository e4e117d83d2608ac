package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/conversation"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/events"
	"github.com/felixgeelhaar/matchme/internal/interest"
	"github.com/felixgeelhaar/matchme/internal/match"
	"github.com/felixgeelhaar/matchme/internal/remote/remotetest"
	"github.com/felixgeelhaar/matchme/internal/user"
)

// setupTestServer wires the MCP server to a fake API
func setupTestServer(t *testing.T) (*Server, *remotetest.Server) {
	t.Helper()

	srv := remotetest.New(t)
	api := srv.Client(t)
	logger := remotetest.Logger()

	server := NewServer(Config{
		Sessions:      auth.NewStaticProvider(auth.Session{UserID: "u1", Token: "tok"}),
		Matches:       match.NewService(api, match.WithLogger(logger)),
		Interests:     interest.NewService(api, events.Nop{}, logger),
		Users:         user.NewService(api, nil, 0, logger),
		Conversations: conversation.NewService(api, remotetest.Logger()),
		Logger:        logger,
	})
	return server, srv
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.GetMCPServer() == nil {
		t.Fatal("expected non-nil MCP server")
	}
	if server.matches == nil || server.interests == nil || server.users == nil {
		t.Fatal("expected services to be set")
	}
}

func TestServerConfig_Empty(t *testing.T) {
	// Test with nil services - should not panic
	server := NewServer(Config{})
	if server == nil || server.logger == nil {
		t.Fatal("expected non-nil server with default logger")
	}
}

func TestHandleProfile(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/users/u1/detail", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, map[string]any{
			"data": remotetest.Profile("u1", "Ana", map[string]any{
				"sports": []map[string]string{{"id": "s1", "name": "Tennis"}},
			}),
		})
	})

	out, err := server.handleProfile(context.Background(), ProfileInput{})
	if err != nil {
		t.Fatalf("handleProfile() error = %v", err)
	}
	if out.Alias != "Ana" || out.Gender != "FEMALE" {
		t.Errorf("output = %+v", out)
	}
	if len(out.Interests.Sports) != 1 || out.Interests.Hobbies == nil {
		t.Errorf("interests = %+v", out.Interests)
	}
}

func TestHandleCandidate(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/matchs", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, remotetest.Page(remotetest.Match("m1", "")))
	})

	out, err := server.handleCandidate(context.Background(), CandidateInput{})
	if err != nil {
		t.Fatalf("handleCandidate() error = %v", err)
	}
	if out.Candidate == nil || out.Candidate.MatchID != "m1" || out.Candidate.Distance != 1.5 {
		t.Errorf("candidate = %+v", out.Candidate)
	}
	if srv.Count(http.MethodPost, "/matchs") != 0 {
		t.Error("provisioning should not run when a candidate exists")
	}
}

func TestHandleList(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/matchs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "likes" {
			t.Errorf("status query = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page query = %q", got)
		}
		remotetest.JSON(w, http.StatusOK, remotetest.Page(remotetest.Match("m1", "likes"), nil, remotetest.Match("m2", "likes")))
	})

	out, err := server.handleList(context.Background(), ListInput{Status: "likes", Page: 2})
	if err != nil {
		t.Fatalf("handleList() error = %v", err)
	}
	if len(out.Matches) != 2 || out.Matches[1].MatchID != "m2" {
		t.Errorf("matches = %+v", out.Matches)
	}
}

func TestHandleList_InvalidStatus(t *testing.T) {
	server, srv := setupTestServer(t)

	_, err := server.handleList(context.Background(), ListInput{Status: "maybe"})
	if !errors.Is(err, domain.ErrInvalidMatchStatus) {
		t.Errorf("error = %v; want ErrInvalidMatchStatus", err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("calls = %d; want 0", n)
	}
}

func TestHandleSwipe(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodPut, "/matchs/m1/request-transition", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !body["swipe"] {
			t.Errorf("body = %v; want swipe true", body)
		}
		remotetest.JSON(w, http.StatusOK, map[string]any{"data": nil})
	})

	out, err := server.handleSwipe(context.Background(), SwipeInput{MatchID: "m1", Decision: "accept"})
	if err != nil {
		t.Fatalf("handleSwipe() error = %v", err)
	}
	if out.Decision != "accept" {
		t.Errorf("output = %+v", out)
	}

	_, err = server.handleSwipe(context.Background(), SwipeInput{MatchID: "m1", Decision: "accept"})
	if !errors.Is(err, match.ErrSwipeAlreadyAttempted) {
		t.Errorf("second swipe error = %v; want ErrSwipeAlreadyAttempted", err)
	}
	if n := srv.Count(http.MethodPut, "/matchs/m1/request-transition"); n != 1 {
		t.Errorf("transition calls = %d; want 1", n)
	}
}

func TestHandleSwipe_InvalidDecision(t *testing.T) {
	server, _ := setupTestServer(t)

	_, err := server.handleSwipe(context.Background(), SwipeInput{MatchID: "m1", Decision: "maybe"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("error = %v; want ErrInvalidInput", err)
	}
}

func TestHandleInterests(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/users/u1/detail", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, map[string]any{
			"data": remotetest.Profile("u1", "Ana", map[string]any{
				"hobbies": []map[string]string{{"id": "h1", "name": "Reading"}, {"id": "h2", "name": "Chess"}},
			}),
		})
	})
	ok := func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, map[string]any{"data": nil})
	}
	srv.Handle(http.MethodPost, "/users/u1/detail/interest/delete", ok)
	srv.Handle(http.MethodPost, "/users/u1/detail/interest", ok)
	srv.Handle(http.MethodPatch, "/users/u1/detail/interest", ok)

	out, err := server.handleInterests(context.Background(), InterestsInput{
		Category:  "hobbies",
		Add:       []string{"Climbing"},
		RemoveIDs: []string{"h2"},
	})
	if err != nil {
		t.Fatalf("handleInterests() error = %v", err)
	}
	if out.Created != 1 || out.Updated != 1 || out.Deleted != 1 {
		t.Errorf("output = %+v", out)
	}
}

func TestHandleInterests_Duplicate(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/users/u1/detail", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, map[string]any{
			"data": remotetest.Profile("u1", "Ana", map[string]any{
				"hobbies": []map[string]string{{"id": "h1", "name": "Reading"}},
			}),
		})
	})

	_, err := server.handleInterests(context.Background(), InterestsInput{Category: "hobbies", Add: []string{"Reading"}})
	var verrs interest.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 || verrs[0].Reason != interest.ReasonDuplicate {
		t.Fatalf("error = %v; want one duplicate validation error", err)
	}
	if n := len(srv.Calls()); n != 1 {
		t.Errorf("calls = %d; want only the profile fetch", n)
	}
}

func TestHandleInterests_Noop(t *testing.T) {
	server, srv := setupTestServer(t)

	out, err := server.handleInterests(context.Background(), InterestsInput{Category: "sports"})
	if err != nil || out.Message != "Nothing to change." {
		t.Errorf("handleInterests() = %+v, %v", out, err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("calls = %d; want 0", n)
	}
}

func TestHandleConversations(t *testing.T) {
	server, srv := setupTestServer(t)
	srv.Handle(http.MethodGet, "/conversations", func(w http.ResponseWriter, r *http.Request) {
		remotetest.JSON(w, http.StatusOK, remotetest.Page(map[string]any{
			"id":         "c1",
			"recepient":  map[string]any{"id": "u2", "display_name": "Bo", "url": "https://cdn/bo.jpg"},
			"chat_rows":  1,
			"day_pass":   1,
			"last_chat":  map[string]any{"id": "x", "author": "u2", "message": "hi", "unread_message_count": 2},
			"updated_at": "2024-01-02T10:00:00Z",
			"created_at": "2024-01-01T10:00:00Z",
		}))
	})

	out, err := server.handleConversations(context.Background(), ConversationsInput{})
	if err != nil {
		t.Fatalf("handleConversations() error = %v", err)
	}
	if len(out.Conversations) != 1 || out.Conversations[0].With != "Bo" || out.Conversations[0].Unread != 2 {
		t.Errorf("conversations = %+v", out.Conversations)
	}
}

func TestHandlers_RequireSession(t *testing.T) {
	server := NewServer(Config{Sessions: auth.NewStaticProvider(auth.Session{})})

	if _, err := server.handleCandidate(context.Background(), CandidateInput{}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("error = %v; want ErrNotAuthenticated", err)
	}
}
