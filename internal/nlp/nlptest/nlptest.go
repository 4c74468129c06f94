// Package nlptest holds hand-built dependency parses with spaCy-compatible
// labels so graph construction can be tested without a parse service.
package nlptest

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/nlp"
)

// Tok describes one token: text, lemma, coarse POS, dependency label and head
// index. Character offsets are computed from the sentence text.
type Tok struct {
	Text  string
	Lemma string
	POS   string
	Dep   string
	Head  int
}

// Ent marks tokens [Start, End) as a named entity.
type Ent struct {
	Start int
	End   int
	Label string
}

// Doc assembles an AnnotatedDoc, locating each token in text left to right.
// It panics on fixtures that do not line up with their text.
func Doc(text string, toks []Tok, ents ...Ent) *domain.AnnotatedDoc {
	doc := &domain.AnnotatedDoc{Text: text}
	cursor := 0
	for i, t := range toks {
		off := strings.Index(text[cursor:], t.Text)
		if off < 0 {
			panic(fmt.Sprintf("nlptest: token %q not found in %q after offset %d", t.Text, text, cursor))
		}
		start := cursor + off
		cursor = start + len(t.Text)
		doc.Tokens = append(doc.Tokens, domain.Token{
			Index: i,
			Text:  t.Text,
			Lemma: t.Lemma,
			POS:   t.POS,
			Tag:   tagFor(t.POS),
			Dep:   t.Dep,
			Head:  t.Head,
			Start: start,
		})
	}
	for _, e := range ents {
		startChar := doc.Tokens[e.Start].Start
		endChar := doc.Tokens[e.End-1].End()
		doc.Entities = append(doc.Entities, domain.EntitySpan{
			Start:     e.Start,
			End:       e.End,
			StartChar: startChar,
			EndChar:   endChar,
			Label:     e.Label,
			Text:      text[startChar:endChar],
		})
	}
	if err := nlp.Validate(doc); err != nil {
		panic("nlptest: " + err.Error())
	}
	return doc
}

func tagFor(pos string) string {
	switch pos {
	case "NOUN":
		return "NN"
	case "PROPN":
		return "NNP"
	case "VERB":
		return "VB"
	case "AUX":
		return "MD"
	case "ADJ":
		return "JJ"
	case "PRON":
		return "PRP"
	case "DET":
		return "DT"
	case "ADP":
		return "IN"
	case "SCONJ":
		return "IN"
	case "CCONJ":
		return "CC"
	case "ADV":
		return "RB"
	case "PART":
		return "RB"
	case "PUNCT":
		return "."
	}
	return ""
}

const (
	BuildingTall    = "The building is tall."
	ItShort         = "It is short."
	ItBroken        = "It is broken."
	ItCold          = "It is cold."
	CheckFile       = "Check the file."
	FellBecause     = "I fell because I tripped."
	TallShort       = "I saw a tall short building."
	WantFastApp     = "I want to build a fast application."
	AppShouldBeSlow = "The application should be slow."
	LeaveIfRains    = "We leave the house if it rains."
	MightNotCome    = "He might not come."
	GregorTired     = "Gregor Samsa woke up. He was tired."
	WorksInParis    = "She works in Paris."
	GregorInsect    = "Gregor transformed into an insect."
	OpenedThenLeft  = "I opened the door and then I left."
	TriedButFailed  = "I tried but I failed."
	CoffeeHot       = "The coffee is hot."
	CoffeeCold      = "The coffee is cold."
	MaybeUneasy     = "Maybe he feels uneasy."
)

// Parse returns a fresh fixture for text, or nil when none exists.
func Parse(text string) *domain.AnnotatedDoc {
	build, ok := fixtures[text]
	if !ok {
		return nil
	}
	return build()
}

// Annotator returns a static annotator preloaded with every fixture.
func Annotator() *nlp.StaticAnnotator {
	a := nlp.NewStaticAnnotator()
	for _, build := range fixtures {
		a.Add(build())
	}
	return a
}

var fixtures = map[string]func() *domain.AnnotatedDoc{
	BuildingTall: func() *domain.AnnotatedDoc {
		return Doc(BuildingTall, []Tok{
			{"The", "the", "DET", "det", 1},
			{"building", "building", "NOUN", "nsubj", 2},
			{"is", "be", "AUX", "ROOT", 2},
			{"tall", "tall", "ADJ", "acomp", 2},
			{".", ".", "PUNCT", "punct", 2},
		})
	},
	ItShort: func() *domain.AnnotatedDoc {
		return Doc(ItShort, []Tok{
			{"It", "it", "PRON", "nsubj", 1},
			{"is", "be", "AUX", "ROOT", 1},
			{"short", "short", "ADJ", "acomp", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	ItCold: func() *domain.AnnotatedDoc {
		return Doc(ItCold, []Tok{
			{"It", "it", "PRON", "nsubj", 1},
			{"is", "be", "AUX", "ROOT", 1},
			{"cold", "cold", "ADJ", "acomp", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	ItBroken: func() *domain.AnnotatedDoc {
		return Doc(ItBroken, []Tok{
			{"It", "it", "PRON", "nsubjpass", 2},
			{"is", "be", "AUX", "auxpass", 2},
			{"broken", "break", "VERB", "ROOT", 2},
			{".", ".", "PUNCT", "punct", 2},
		})
	},
	CheckFile: func() *domain.AnnotatedDoc {
		return Doc(CheckFile, []Tok{
			{"Check", "check", "VERB", "ROOT", 0},
			{"the", "the", "DET", "det", 2},
			{"file", "file", "NOUN", "dobj", 0},
			{".", ".", "PUNCT", "punct", 0},
		})
	},
	FellBecause: func() *domain.AnnotatedDoc {
		return Doc(FellBecause, []Tok{
			{"I", "I", "PRON", "nsubj", 1},
			{"fell", "fall", "VERB", "ROOT", 1},
			{"because", "because", "SCONJ", "mark", 4},
			{"I", "I", "PRON", "nsubj", 4},
			{"tripped", "trip", "VERB", "advcl", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	TallShort: func() *domain.AnnotatedDoc {
		return Doc(TallShort, []Tok{
			{"I", "I", "PRON", "nsubj", 1},
			{"saw", "see", "VERB", "ROOT", 1},
			{"a", "a", "DET", "det", 5},
			{"tall", "tall", "ADJ", "amod", 5},
			{"short", "short", "ADJ", "amod", 5},
			{"building", "building", "NOUN", "dobj", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	WantFastApp: func() *domain.AnnotatedDoc {
		return Doc(WantFastApp, []Tok{
			{"I", "I", "PRON", "nsubj", 1},
			{"want", "want", "VERB", "ROOT", 1},
			{"to", "to", "PART", "aux", 3},
			{"build", "build", "VERB", "xcomp", 1},
			{"a", "a", "DET", "det", 6},
			{"fast", "fast", "ADJ", "amod", 6},
			{"application", "application", "NOUN", "dobj", 3},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	AppShouldBeSlow: func() *domain.AnnotatedDoc {
		return Doc(AppShouldBeSlow, []Tok{
			{"The", "the", "DET", "det", 1},
			{"application", "application", "NOUN", "nsubj", 3},
			{"should", "should", "AUX", "aux", 3},
			{"be", "be", "AUX", "ROOT", 3},
			{"slow", "slow", "ADJ", "acomp", 3},
			{".", ".", "PUNCT", "punct", 3},
		})
	},
	LeaveIfRains: func() *domain.AnnotatedDoc {
		return Doc(LeaveIfRains, []Tok{
			{"We", "we", "PRON", "nsubj", 1},
			{"leave", "leave", "VERB", "ROOT", 1},
			{"the", "the", "DET", "det", 3},
			{"house", "house", "NOUN", "dobj", 1},
			{"if", "if", "SCONJ", "mark", 6},
			{"it", "it", "PRON", "nsubj", 6},
			{"rains", "rain", "VERB", "advcl", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	MightNotCome: func() *domain.AnnotatedDoc {
		return Doc(MightNotCome, []Tok{
			{"He", "he", "PRON", "nsubj", 3},
			{"might", "might", "AUX", "aux", 3},
			{"not", "not", "PART", "neg", 3},
			{"come", "come", "VERB", "ROOT", 3},
			{".", ".", "PUNCT", "punct", 3},
		})
	},
	GregorTired: func() *domain.AnnotatedDoc {
		return Doc(GregorTired, []Tok{
			{"Gregor", "Gregor", "PROPN", "compound", 1},
			{"Samsa", "Samsa", "PROPN", "nsubj", 2},
			{"woke", "wake", "VERB", "ROOT", 2},
			{"up", "up", "ADP", "prt", 2},
			{".", ".", "PUNCT", "punct", 2},
			{"He", "he", "PRON", "nsubj", 6},
			{"was", "be", "AUX", "ROOT", 6},
			{"tired", "tired", "ADJ", "acomp", 6},
			{".", ".", "PUNCT", "punct", 6},
		}, Ent{Start: 0, End: 2, Label: "PERSON"})
	},
	WorksInParis: func() *domain.AnnotatedDoc {
		return Doc(WorksInParis, []Tok{
			{"She", "she", "PRON", "nsubj", 1},
			{"works", "work", "VERB", "ROOT", 1},
			{"in", "in", "ADP", "prep", 1},
			{"Paris", "Paris", "PROPN", "pobj", 2},
			{".", ".", "PUNCT", "punct", 1},
		}, Ent{Start: 3, End: 4, Label: "GPE"})
	},
	GregorInsect: func() *domain.AnnotatedDoc {
		return Doc(GregorInsect, []Tok{
			{"Gregor", "Gregor", "PROPN", "nsubj", 1},
			{"transformed", "transform", "VERB", "ROOT", 1},
			{"into", "into", "ADP", "prep", 1},
			{"an", "an", "DET", "det", 4},
			{"insect", "insect", "NOUN", "pobj", 2},
			{".", ".", "PUNCT", "punct", 1},
		}, Ent{Start: 0, End: 1, Label: "PERSON"})
	},
	OpenedThenLeft: func() *domain.AnnotatedDoc {
		return Doc(OpenedThenLeft, []Tok{
			{"I", "I", "PRON", "nsubj", 1},
			{"opened", "open", "VERB", "ROOT", 1},
			{"the", "the", "DET", "det", 3},
			{"door", "door", "NOUN", "dobj", 1},
			{"and", "and", "CCONJ", "cc", 1},
			{"then", "then", "ADV", "advmod", 7},
			{"I", "I", "PRON", "nsubj", 7},
			{"left", "leave", "VERB", "conj", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	TriedButFailed: func() *domain.AnnotatedDoc {
		return Doc(TriedButFailed, []Tok{
			{"I", "I", "PRON", "nsubj", 1},
			{"tried", "try", "VERB", "ROOT", 1},
			{"but", "but", "CCONJ", "cc", 1},
			{"I", "I", "PRON", "nsubj", 4},
			{"failed", "fail", "VERB", "conj", 1},
			{".", ".", "PUNCT", "punct", 1},
		})
	},
	CoffeeHot: func() *domain.AnnotatedDoc {
		return Doc(CoffeeHot, []Tok{
			{"The", "the", "DET", "det", 1},
			{"coffee", "coffee", "NOUN", "nsubj", 2},
			{"is", "be", "AUX", "ROOT", 2},
			{"hot", "hot", "ADJ", "acomp", 2},
			{".", ".", "PUNCT", "punct", 2},
		})
	},
	CoffeeCold: func() *domain.AnnotatedDoc {
		return Doc(CoffeeCold, []Tok{
			{"The", "the", "DET", "det", 1},
			{"coffee", "coffee", "NOUN", "nsubj", 2},
			{"is", "be", "AUX", "ROOT", 2},
			{"cold", "cold", "ADJ", "acomp", 2},
			{".", ".", "PUNCT", "punct", 2},
		})
	},
	MaybeUneasy: func() *domain.AnnotatedDoc {
		return Doc(MaybeUneasy, []Tok{
			{"Maybe", "maybe", "ADV", "advmod", 2},
			{"he", "he", "PRON", "nsubj", 2},
			{"feels", "feel", "VERB", "ROOT", 2},
			{"uneasy", "uneasy", "ADJ", "acomp", 2},
			{".", ".", "PUNCT", "punct", 2},
		})
	},
}
