package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/conversation"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/interest"
	"github.com/felixgeelhaar/matchme/internal/match"
	"github.com/felixgeelhaar/matchme/internal/user"
)

// Server exposes the matchme operations as MCP tools
type Server struct {
	mcpServer     *server.Server
	sessions      auth.Provider
	matches       *match.Service
	interests     *interest.Service
	users         *user.Service
	conversations *conversation.Service
	logger        *slog.Logger
}

// Config contains configuration for the MCP server
type Config struct {
	Sessions      auth.Provider
	Matches       *match.Service
	Interests     *interest.Service
	Users         *user.Service
	Conversations *conversation.Service
	Version       string
	Logger        *slog.Logger
}

// NewServer creates a new MCP server for matchme
func NewServer(cfg Config) *Server {
	s := &Server{
		sessions:      cfg.Sessions,
		matches:       cfg.Matches,
		interests:     cfg.Interests,
		users:         cfg.Users,
		conversations: cfg.Conversations,
		logger:        cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "matchme",
		Version: version,
	}, server.WithInstructions(`
matchme browses and edits a dating profile on behalf of the signed-in user.

Available tools:
- matchme_profile: Show the user's profile detail
- matchme_candidate: Show the current match candidate, provisioning one if needed
- matchme_list: List likes or accepted matches
- matchme_swipe: Accept or reject a match (one attempt per match)
- matchme_interests: Add or remove interests in one category
- matchme_conversations: List conversations

A swipe is never retried. If its outcome is unknown the match stays
blocked until the user checks it in the app.
`))

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("matchme_profile").
		Description("Show the signed-in user's profile detail and interests.").
		Handler(s.handleProfile)

	s.mcpServer.Tool("matchme_candidate").
		Description("Show the current match candidate. Asks the server to provision candidates when none is pending.").
		Handler(s.handleCandidate)

	s.mcpServer.Tool("matchme_list").
		Description("List matches that liked the user or were accepted.").
		Handler(s.handleList)

	s.mcpServer.Tool("matchme_swipe").
		Description("Accept or reject a match. Each match can be swiped once.").
		Handler(s.handleSwipe)

	s.mcpServer.Tool("matchme_interests").
		Description("Add or remove interests in one category. At most 10 per category.").
		Handler(s.handleInterests)

	s.mcpServer.Tool("matchme_conversations").
		Description("List the user's conversations.").
		Handler(s.handleConversations)
}

// Input/Output types for tools

type ProfileInput struct{}

type Interests struct {
	Hobbies     []domain.InterestItem `json:"hobbies"`
	MovieSeries []domain.InterestItem `json:"movie_series"`
	Sports      []domain.InterestItem `json:"sports"`
	Travels     []domain.InterestItem `json:"travels"`
}

type ProfileOutput struct {
	UserID       string    `json:"user_id"`
	Alias        string    `json:"alias"`
	Bio          string    `json:"bio,omitempty"`
	Gender       string    `json:"gender"`
	LookingFor   string    `json:"looking_for"`
	Work         string    `json:"work,omitempty"`
	FromLocation string    `json:"from_location,omitempty"`
	Interests    Interests `json:"interests"`
}

type CandidateInput struct{}

type MatchOutput struct {
	MatchID  string   `json:"match_id"`
	UserID   string   `json:"user_id"`
	Alias    string   `json:"alias"`
	Status   string   `json:"status"`
	Distance float64  `json:"distance_km"`
	Bio      string   `json:"bio,omitempty"`
	Hobbies  []string `json:"hobbies,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
}

type CandidateOutput struct {
	Candidate *MatchOutput `json:"candidate"`
	HasNext   bool         `json:"has_next"`
}

type ListInput struct {
	Status string `json:"status" jsonschema:"description=Match status,enum=likes,enum=accepted"`
	Page   int    `json:"page,omitempty" jsonschema:"description=Page number starting at 1"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Page size (default: 10)"`
}

type ListOutput struct {
	Matches []MatchOutput `json:"matches"`
	HasNext bool          `json:"has_next"`
	HasPrev bool          `json:"has_prev"`
}

type SwipeInput struct {
	MatchID  string `json:"match_id" jsonschema:"description=Match ID from matchme_candidate or matchme_list"`
	Decision string `json:"decision" jsonschema:"description=accept or reject,enum=accept,enum=reject"`
}

type SwipeOutput struct {
	MatchID  string `json:"match_id"`
	Decision string `json:"decision"`
	Message  string `json:"message"`
}

type InterestsInput struct {
	Category  string   `json:"category" jsonschema:"description=Interest category,enum=hobbies,enum=movie_series,enum=sports,enum=travels"`
	Add       []string `json:"add,omitempty" jsonschema:"description=Names to add"`
	RemoveIDs []string `json:"remove_ids,omitempty" jsonschema:"description=IDs of interests to remove"`
}

type InterestsOutput struct {
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

type ConversationsInput struct {
	Page  int `json:"page,omitempty" jsonschema:"description=Page number starting at 1"`
	Limit int `json:"limit,omitempty" jsonschema:"description=Page size (default: 10)"`
}

type ConversationOutput struct {
	ID          string `json:"id"`
	With        string `json:"with"`
	LastMessage string `json:"last_message,omitempty"`
	Unread      int    `json:"unread"`
}

type ConversationsOutput struct {
	Conversations []ConversationOutput `json:"conversations"`
	HasNext       bool                 `json:"has_next"`
}

// Tool handlers

func (s *Server) handleProfile(ctx context.Context, _ ProfileInput) (ProfileOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ProfileOutput{}, err
	}
	p, err := s.users.GetDetail(ctx, sess)
	if err != nil {
		return ProfileOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return ProfileOutput{
		UserID:       p.UserID,
		Alias:        p.Alias,
		Bio:          p.Bio,
		Gender:       string(p.Gender),
		LookingFor:   string(p.LookingFor),
		Work:         p.Work,
		FromLocation: p.FromLocation,
		Interests: Interests{
			Hobbies:     nonNil(p.Hobbies),
			MovieSeries: nonNil(p.MovieSeries),
			Sports:      nonNil(p.Sports),
			Travels:     nonNil(p.Travels),
		},
	}, nil
}

func (s *Server) handleCandidate(ctx context.Context, _ CandidateInput) (CandidateOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return CandidateOutput{}, err
	}
	page, err := s.matches.EnsureCandidate(ctx, sess, domain.DefaultPagination())
	if err != nil {
		return CandidateOutput{}, fmt.Errorf("failed to load candidate: %w", err)
	}
	out := CandidateOutput{HasNext: page.Cursor.HasNext()}
	if c := page.First(); c != nil {
		m := toMatchOutput(c)
		out.Candidate = &m
	}
	return out, nil
}

func (s *Server) handleList(ctx context.Context, input ListInput) (ListOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ListOutput{}, err
	}
	status, err := domain.ParseMatchStatus(input.Status)
	if err != nil {
		return ListOutput{}, err
	}
	page, err := s.matches.ListByStatus(ctx, sess, status, pagination(input.Page, input.Limit))
	if err != nil {
		return ListOutput{}, fmt.Errorf("failed to list matches: %w", err)
	}
	out := ListOutput{
		Matches: []MatchOutput{},
		HasNext: page.Cursor.HasNext(),
		HasPrev: page.Cursor.HasPrev(),
	}
	for _, m := range page.Items() {
		out.Matches = append(out.Matches, toMatchOutput(m))
	}
	return out, nil
}

func (s *Server) handleSwipe(ctx context.Context, input SwipeInput) (SwipeOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return SwipeOutput{}, err
	}
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return SwipeOutput{}, err
	}
	if err := s.matches.Swipe(ctx, sess, input.MatchID, decision); err != nil {
		return SwipeOutput{}, fmt.Errorf("swipe failed: %w", err)
	}
	msg := "Rejected."
	if decision == domain.Accept {
		msg = "Accepted. If they accept too, the match moves to accepted."
	}
	return SwipeOutput{MatchID: input.MatchID, Decision: decision.String(), Message: msg}, nil
}

func (s *Server) handleInterests(ctx context.Context, input InterestsInput) (InterestsOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return InterestsOutput{}, err
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return InterestsOutput{}, err
	}
	if len(input.Add) == 0 && len(input.RemoveIDs) == 0 {
		return InterestsOutput{Message: "Nothing to change."}, nil
	}
	original, err := s.users.GetDetail(ctx, sess)
	if err != nil {
		return InterestsOutput{}, fmt.Errorf("failed to load profile: %w", err)
	}

	edit := domain.EditSession{Added: input.Add, RemovedIDs: input.RemoveIDs}
	for _, item := range original.Interests(category) {
		if !slices.Contains(input.RemoveIDs, item.ID) {
			edit.Retained = append(edit.Retained, item)
		}
	}

	plan, err := s.interests.Edit(ctx, sess, original, map[domain.Category]domain.EditSession{category: edit})
	if err != nil {
		return InterestsOutput{}, fmt.Errorf("failed to update interests: %w", err)
	}
	return InterestsOutput{
		Created: len(plan.Create[category]),
		Updated: len(plan.Update[category]),
		Deleted: len(plan.Delete[category]),
		Message: fmt.Sprintf("Updated %s.", category),
	}, nil
}

func (s *Server) handleConversations(ctx context.Context, input ConversationsInput) (ConversationsOutput, error) {
	sess, err := s.sessions.Session(ctx)
	if err != nil {
		return ConversationsOutput{}, err
	}
	page, err := s.conversations.List(ctx, sess, pagination(input.Page, input.Limit))
	if err != nil {
		return ConversationsOutput{}, fmt.Errorf("failed to list conversations: %w", err)
	}
	out := ConversationsOutput{Conversations: []ConversationOutput{}, HasNext: page.Cursor.HasNext()}
	for _, c := range page.Items() {
		out.Conversations = append(out.Conversations, ConversationOutput{
			ID:          c.ID,
			With:        c.Recipient.DisplayName,
			LastMessage: c.LastChat.Message,
			Unread:      c.LastChat.UnreadCount,
		})
	}
	return out, nil
}

func toMatchOutput(c *domain.MatchCandidate) MatchOutput {
	out := MatchOutput{
		MatchID:  c.MatchID,
		UserID:   c.UserID,
		Alias:    c.Alias,
		Status:   string(c.Status),
		Distance: c.Distance,
		Bio:      c.Bio,
		Avatar:   c.Avatar(),
	}
	for _, h := range c.Hobbies {
		out.Hobbies = append(out.Hobbies, h.Name)
	}
	return out
}

func pagination(page, limit int) domain.Pagination {
	p := domain.DefaultPagination()
	if page > 0 {
		p.Page = page
	}
	if limit > 0 {
		p.Limit = limit
	}
	return p.Normalize()
}

func nonNil(items []domain.InterestItem) []domain.InterestItem {
	if items == nil {
		return []domain.InterestItem{}
	}
	return items
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
