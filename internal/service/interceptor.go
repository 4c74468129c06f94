package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/checker"
	"github.com/Harshitk-cp/lide/internal/domain"
	"go.uber.org/zap"
)

const DefaultSessionID = "default"

const noIssuesReply = "I understand. (No issues detected)"

type ChatReply struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Response  string `json:"response"`
	Warning   string `json:"warning,omitempty"`
}

// Interceptor sits between a user and an agent: every user message becomes a
// session turn and the agent is handed at most one system warning.
type Interceptor struct {
	sessions *SessionService
	logger   *zap.Logger
}

func NewInterceptor(sessions *SessionService, logger *zap.Logger) *Interceptor {
	return &Interceptor{sessions: sessions, logger: logger}
}

func (i *Interceptor) HandleMessage(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrTextEmpty
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	if _, err := i.sessions.Ensure(ctx, sessionID); err != nil {
		return nil, err
	}

	turn, err := i.sessions.AddMessage(ctx, sessionID, message, "")
	if err != nil {
		return nil, err
	}

	reply := &ChatReply{
		SessionID: sessionID,
		MessageID: turn.MessageID,
		Response:  noIssuesReply,
		Warning:   turn.Warning,
	}
	if turn.Warning != "" {
		body := strings.TrimSuffix(strings.TrimPrefix(turn.Warning, "[SYSTEM WARNING: "), "]")
		reply.Response = "Wait, I'm confused. " + body
		i.logger.Info("warning injected",
			zap.String("session_id", sessionID),
			zap.String("message_id", turn.MessageID),
		)
	}
	return reply, nil
}

// SelectWarning picks the single warning for a turn: an oxymoron in the turn,
// then an ambiguity in the turn, then a continuity conflict anywhere in the
// full history. It returns "" when there is nothing to report. The turn's
// nodes must be the last nodes of full, as left by MeaningGraph.Append.
func SelectWarning(turn, full *domain.MeaningGraph) string {
	if diags := checker.Oxymoron(turn); len(diags) > 0 {
		terms := "contradictory terms"
		if a, b, ok := receiptPair(diags[0], "terms"); ok {
			terms = a + " " + b
		}
		return fmt.Sprintf("[SYSTEM WARNING: Contradiction detected. I was thinking \"%s\" would be unclear, should this sentence make sense?]", terms)
	}
	if diags := checker.Ambiguity(turnInHistory(turn, full)); len(diags) > 0 {
		return fmt.Sprintf("[SYSTEM WARNING: Ambiguity detected. %s Please clarify.]", diags[0].Message)
	}
	if diags := checker.Continuity(full); len(diags) > 0 {
		r := receipt(diags[0])
		return fmt.Sprintf("[SYSTEM WARNING: Contradiction detected in user reasoning. User previously implied '%v %v %v', but now implies '%v'. Ask the user to clarify.]",
			r["subject"], r["property"], r["first_value"], r["later_value"])
	}
	return ""
}

// turnInHistory pairs the turn's nodes with every edge of the history so a
// pronoun resolved against an earlier turn is not reported.
func turnInHistory(turn, full *domain.MeaningGraph) *domain.MeaningGraph {
	n := len(turn.Nodes)
	if n > len(full.Nodes) {
		return turn
	}
	return &domain.MeaningGraph{
		Nodes: full.Nodes[len(full.Nodes)-n:],
		Edges: full.Edges,
	}
}

func receipt(d domain.Diagnostic) map[string]any {
	if len(d.Provenance) == 0 || len(d.Provenance[0].Receipts) == 0 {
		return map[string]any{}
	}
	return d.Provenance[0].Receipts[0]
}

func receiptPair(d domain.Diagnostic, key string) (string, string, bool) {
	switch v := receipt(d)[key].(type) {
	case []string:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	case []any:
		if len(v) == 2 {
			return fmt.Sprint(v[0]), fmt.Sprint(v[1]), true
		}
	}
	return "", "", false
}
