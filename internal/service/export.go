package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var ErrInvalidExportFormat = errors.New("format must be 'json' or 'markdown'")

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

type SessionExport struct {
	SessionID string                  `json:"session_id"`
	Session   domain.SessionMetadata  `json:"session"`
	Messages  []domain.SessionMessage `json:"messages"`
	Graph     *domain.MeaningGraph    `json:"graph"`
}

type MarkdownExport struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

var keyRelationships = map[domain.EdgeRole]bool{
	domain.RoleCause:     true,
	domain.RoleContrast:  true,
	domain.RoleSequence:  true,
	domain.RoleCondition: true,
	domain.RoleSameAs:    true,
}

// Export projects a session as a JSON document (*SessionExport) or a
// markdown narrative (*MarkdownExport).
func (s *SessionService) Export(ctx context.Context, id, format string) (any, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMarkdown {
		return nil, ErrInvalidExportFormat
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if format == FormatMarkdown {
		return &MarkdownExport{Format: FormatMarkdown, Content: RenderMarkdown(sess)}, nil
	}
	return &SessionExport{
		SessionID: sess.ID,
		Session:   sess.Metadata(),
		Messages:  sess.Messages,
		Graph:     sess.Graph,
	}, nil
}

func RenderMarkdown(sess *domain.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Session: %s\n\n", sess.Name)
	fmt.Fprintf(&b, "**ID**: %s\n\n", sess.ID)
	fmt.Fprintf(&b, "**Created**: %s\n\n", sess.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**Messages**: %d\n\n", len(sess.Messages))

	if len(sess.Messages) > 0 {
		b.WriteString("## Transcript\n\n")
		for i, m := range sess.Messages {
			fmt.Fprintf(&b, "%d. %s\n", i+1, m.Text)
		}
		b.WriteString("\n")
	}

	g := sess.Graph
	if g == nil {
		return b.String()
	}

	writeNodes(&b, "Goals", g.NodesOfType(domain.NodeGoal))
	writeNodes(&b, "Events", g.NodesOfType(domain.NodeEvent))
	writeNodes(&b, "Entities", g.NodesOfType(domain.NodeEntity))

	var rels []string
	for _, e := range g.Edges {
		if !keyRelationships[e.Role] {
			continue
		}
		srcFrame, tgtFrame := e.EndpointFrames()
		rels = append(rels, fmt.Sprintf("- %s —%s→ %s\n", nodeLabel(g, e.Source, srcFrame), e.Role, nodeLabel(g, e.Target, tgtFrame)))
	}
	if len(rels) > 0 {
		b.WriteString("## Key Relationships\n\n")
		for _, r := range rels {
			b.WriteString(r)
		}
		b.WriteString("\n")
	}

	if len(g.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range g.Diagnostics {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", d.Kind, d.Severity, d.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeNodes(b *strings.Builder, title string, nodes []domain.Node) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, n := range nodes {
		fmt.Fprintf(b, "- **%s** (ID: %s)\n", n.Label, n.ID)
	}
	b.WriteString("\n")
}

func nodeLabel(g *domain.MeaningGraph, id, frame string) string {
	if n, ok := g.NodeInFrame(id, frame); ok {
		return n.Label
	}
	return id
}
