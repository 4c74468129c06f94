package domain

import "time"

type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Lang      string    `json:"lang"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionMessage struct {
	Text      string    `json:"text"`
	DocID     string    `json:"doc_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Session accumulates the meaning graph of every message posted to it.
type Session struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Messages  []SessionMessage `json:"messages"`
	Graph     *MeaningGraph    `json:"graph"`
}

type SessionMetadata struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	NodeCount    int       `json:"node_count"`
	EdgeCount    int       `json:"edge_count"`
	Diagnostics  int       `json:"diagnostic_count"`
}

func (s *Session) Metadata() SessionMetadata {
	m := SessionMetadata{
		ID:           s.ID,
		Name:         s.Name,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: len(s.Messages),
	}
	if s.Graph != nil {
		m.NodeCount = len(s.Graph.Nodes)
		m.EdgeCount = len(s.Graph.Edges)
		m.Diagnostics = len(s.Graph.Diagnostics)
	}
	return m
}
