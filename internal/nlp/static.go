package nlp

import (
	"context"
	"errors"
	"sync"

	"github.com/Harshitk-cp/lide/internal/domain"
)

var ErrNoParse = errors.New("no parse available for text")

// StaticAnnotator serves pre-computed parses keyed by exact text. It backs
// tests and offline demos where no parse service is running.
type StaticAnnotator struct {
	mu     sync.RWMutex
	parses map[string]*domain.AnnotatedDoc
}

func NewStaticAnnotator(docs ...*domain.AnnotatedDoc) *StaticAnnotator {
	a := &StaticAnnotator{parses: make(map[string]*domain.AnnotatedDoc)}
	for _, d := range docs {
		a.Add(d)
	}
	return a
}

func (a *StaticAnnotator) Add(doc *domain.AnnotatedDoc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.parses[doc.Text] = doc
}

func (a *StaticAnnotator) Annotate(_ context.Context, text string) (*domain.AnnotatedDoc, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	doc, ok := a.parses[text]
	if !ok {
		return nil, ErrNoParse
	}
	cp := *doc
	cp.Tokens = append([]domain.Token(nil), doc.Tokens...)
	cp.Entities = append([]domain.EntitySpan(nil), doc.Entities...)
	return &cp, nil
}
