package domain

import "context"

// Token is one word of an annotated text. Head is the index of the syntactic
// governor; the sentence root is its own head.
type Token struct {
	Index int    `json:"i"`
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Tag   string `json:"tag"`
	Dep   string `json:"dep"`
	Head  int    `json:"head"`
	Start int    `json:"idx"`
}

func (t Token) End() int { return t.Start + len(t.Text) }

// EntitySpan covers tokens [Start, End).
type EntitySpan struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	Label     string `json:"label"`
	Text      string `json:"text"`
}

// AnnotatedDoc is the tokenized, tagged and dependency-parsed text supplied by
// an Annotator.
type AnnotatedDoc struct {
	Text     string       `json:"text"`
	Tokens   []Token      `json:"tokens"`
	Entities []EntitySpan `json:"ents"`
}

// Children returns the dependents of token i in index order.
func (d *AnnotatedDoc) Children(i int) []Token {
	var out []Token
	for _, t := range d.Tokens {
		if t.Head == i && t.Index != i {
			out = append(out, t)
		}
	}
	return out
}

// EntityContaining returns the entity whose token range covers i.
func (d *AnnotatedDoc) EntityContaining(i int) (EntitySpan, bool) {
	for _, e := range d.Entities {
		if i >= e.Start && i < e.End {
			return e, true
		}
	}
	return EntitySpan{}, false
}

// EntityHead returns the syntactic head token of an entity span: the token
// whose head lies outside the span.
func (d *AnnotatedDoc) EntityHead(e EntitySpan) Token {
	for i := e.Start; i < e.End && i < len(d.Tokens); i++ {
		h := d.Tokens[i].Head
		if h < e.Start || h >= e.End || h == i {
			return d.Tokens[i]
		}
	}
	return d.Tokens[e.End-1]
}

// Annotator produces tokens, lemmas, tags, dependencies and entity spans.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*AnnotatedDoc, error)
}
