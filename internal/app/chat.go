package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"heritage_pulse/internal/domain"
)

// historyLimit caps how many messages a conversation retains.
const historyLimit = 20

// ChatService runs heritage-guide conversations against the reasoning
// model. History lives in an injected session store keyed by conversation
// id with TTL eviction, not in process memory.
type ChatService struct {
	planner  domain.Planner
	sessions domain.SessionStore
	ttl      time.Duration
}

func NewChatService(p domain.Planner, s domain.SessionStore, ttl time.Duration) *ChatService {
	return &ChatService{planner: p, sessions: s, ttl: ttl}
}

type ChatReply struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
}

// SendMessage appends the user message to the conversation, asks the model,
// stores the exchange, and returns the reply. An empty conversationID
// starts a new conversation.
func (c *ChatService) SendMessage(ctx context.Context, conversationID, message string) (ChatReply, error) {
	if c.planner == nil {
		return ChatReply{}, fmt.Errorf("%w: no reasoning model configured", domain.ErrGeneration)
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	history, _, err := c.sessions.Get(ctx, conversationID)
	if err != nil {
		return ChatReply{}, err
	}
	history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	reply, err := c.planner.Chat(ctx, history, heritageContext(message))
	if err != nil {
		return ChatReply{}, err
	}

	history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	if err := c.sessions.Put(ctx, conversationID, history, c.ttl); err != nil {
		return ChatReply{}, err
	}

	return ChatReply{
		ConversationID: conversationID,
		Message:        reply,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// History returns the stored conversation, empty if unknown or expired.
func (c *ChatService) History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	history, _, err := c.sessions.Get(ctx, conversationID)
	return history, err
}

// Clear evicts a conversation.
func (c *ChatService) Clear(ctx context.Context, conversationID string) error {
	return c.sessions.Evict(ctx, conversationID)
}

var heritageTerms = []string{
	"temple", "monument", "palace", "castle", "fort", "ruins",
	"heritage", "historical", "ancient", "cultural", "unesco",
	"pyramid", "tomb", "mosque", "church", "cathedral", "shrine",
	"museum", "artifact", "archaeology", "tradition", "festival",
}

// heritageContext builds a grounding hint from heritage keywords in the
// user message, appended to the model's system prompt.
func heritageContext(message string) string {
	lower := strings.ToLower(message)
	var found []string
	for _, term := range heritageTerms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	if len(found) == 0 {
		return ""
	}
	return "The user is asking about: " + strings.Join(found, ", ")
}
