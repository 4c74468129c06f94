package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Harshitk-cp/lide/internal/domain"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/nlp/nlptest"
	"github.com/Harshitk-cp/lide/internal/pipeline"
	"github.com/Harshitk-cp/lide/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store       *store.MemoryStore
	analysis    *AnalysisService
	sessions    *SessionService
	interceptor *Interceptor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kb, err := interpret.LoadKnowledgeBase("")
	require.NoError(t, err)

	logger := zap.NewNop()
	st := store.NewMemoryStore()
	p := pipeline.New(nlptest.Annotator(), logger)
	in := interpret.NewInterpreter(interpret.NewRegistry(interpret.NewTruthChecker(kb), interpret.NewDiscourseMarker()), logger)
	sessions := NewSessionService(st, st, st, p, in, logger)

	return &fixture{
		store:       st,
		analysis:    NewAnalysisService(st, st, p, in, logger),
		sessions:    sessions,
		interceptor: NewInterceptor(sessions, logger),
	}
}

func hasMessage(diags []domain.Diagnostic, words ...string) bool {
	for _, d := range diags {
		ok := true
		for _, w := range words {
			if !strings.Contains(strings.ToLower(d.Message), w) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func TestAnalysisService_Documents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.analysis.CreateDocument(ctx, "", "  ", "")
	assert.ErrorIs(t, err, ErrTextEmpty)

	d, err := f.analysis.CreateDocument(ctx, "", nlptest.TallShort, "")
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "en", d.Lang)

	_, err = f.analysis.CreateDocument(ctx, d.ID, "dup", "en")
	assert.ErrorIs(t, err, ErrDocumentConflict)

	got, err := f.analysis.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, nlptest.TallShort, got.Text)

	docs, err := f.analysis.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, f.analysis.DeleteDocument(ctx, d.ID))
	assert.ErrorIs(t, f.analysis.DeleteDocument(ctx, d.ID), ErrDocumentNotFound)
	_, err = f.analysis.GetDocument(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestAnalysisService_Analyze(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.analysis.CreateDocument(ctx, "oxy", nlptest.TallShort, "en")
	require.NoError(t, err)

	_, err = f.analysis.GetGraph(ctx, "oxy")
	assert.ErrorIs(t, err, ErrGraphNotFound)

	res, err := f.analysis.Analyze(ctx, "oxy", AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "oxy", res.DocID)
	assert.Positive(t, res.GraphSummary.Nodes)
	assert.True(t, hasMessage(res.TopDiagnostics, "tall", "short"))
	for _, d := range res.TopDiagnostics {
		if d.Kind == domain.DiagnosticContradiction {
			assert.Equal(t, domain.SeverityWarning, d.Severity)
		}
	}

	g, err := f.analysis.GetGraph(ctx, "oxy")
	require.NoError(t, err)
	assert.Equal(t, res.GraphSummary, g.Summary())

	_, err = f.analysis.Analyze(ctx, "missing", AnalyzeOptions{})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = f.analysis.Analyze(ctx, "oxy", AnalyzeOptions{Mode: "Dream"})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestAnalysisService_Modes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.analysis.CreateDocument(ctx, "kafka", nlptest.GregorInsect, "en")
	require.NoError(t, err)
	res, err := f.analysis.Analyze(ctx, "kafka", AnalyzeOptions{Mode: domain.ModeTruth})
	require.NoError(t, err)
	require.NotEmpty(t, res.KnowledgeValidations)
	assert.Equal(t, "Implausible", res.KnowledgeValidations[0].Verdict)

	_, err = f.analysis.CreateDocument(ctx, "story", nlptest.TallShort, "en")
	require.NoError(t, err)
	res, err = f.analysis.Analyze(ctx, "story", AnalyzeOptions{Mode: domain.ModeFiction})
	require.NoError(t, err)
	for _, d := range res.TopDiagnostics {
		if d.Kind == domain.DiagnosticContradiction {
			assert.Equal(t, domain.SeverityInfo, d.Severity)
			assert.True(t, strings.HasPrefix(d.Message, "[Narrative] "))
		}
	}
}

func TestTopDiagnostics(t *testing.T) {
	diags := make([]domain.Diagnostic, 60)
	assert.Len(t, topDiagnostics(diags, 0), DefaultMaxDiagnostics)
	assert.Len(t, topDiagnostics(diags, 7), 7)
	assert.Len(t, topDiagnostics(diags, 500), MaxDiagnosticsCap)
	assert.Len(t, topDiagnostics(diags[:2], 5), 2)
	assert.NotNil(t, topDiagnostics(nil, 5))
}

func TestAnalysisService_Logic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.analysis.Logic(ctx, "rain")
	assert.ErrorIs(t, err, ErrGraphNotFound)

	_, err = f.analysis.CreateDocument(ctx, "rain", nlptest.LeaveIfRains, "en")
	require.NoError(t, err)
	_, err = f.analysis.Analyze(ctx, "rain", AnalyzeOptions{})
	require.NoError(t, err)

	report, err := f.analysis.Logic(ctx, "rain")
	require.NoError(t, err)
	require.NotEmpty(t, report.OpenQuestions)
	assert.Equal(t, domain.QuestionConditionalAssumption, report.OpenQuestions[0].Type)
	assert.Empty(t, report.Conflicts)

	assert.Len(t, f.analysis.Plugins(), 2)
}

func TestSessionService_TallThenShort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Name)

	_, err = f.sessions.AccumulatedGraph(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrGraphNotFound)

	first, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.BuildingTall, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("msg_%s_1", sess.ID), first.MessageID)
	assert.Empty(t, first.Warning)

	second, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.ItShort, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("msg_%s_2", sess.ID), second.MessageID)
	assert.Equal(t, 2, second.MessageCount)

	g := second.Graph
	var linked bool
	for _, e := range g.EdgesWithRole(domain.RoleSameAs) {
		src, _ := g.Node(e.Source)
		dst, _ := g.Node(e.Target)
		if src.Label == "It" && dst.Label == "building" {
			linked = true
		}
	}
	assert.True(t, linked, "It should corefer with building")
	assert.True(t, hasMessage(second.Diagnostics, "tall", "short"))
	assert.Contains(t, second.Warning, "Contradiction detected in user reasoning")
	assert.Contains(t, second.Warning, "tall")
	assert.Contains(t, second.Warning, "short")

	stored, err := f.sessions.AccumulatedGraph(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, len(g.Nodes), len(stored.Nodes))

	turnGraph, err := f.store.GetGraph(ctx, second.MessageID)
	require.NoError(t, err)
	assert.Less(t, len(turnGraph.Nodes), len(stored.Nodes))

	msgs, err := f.sessions.Messages(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, nlptest.ItShort, msgs[1].Text)
}

func TestSessionService_PronounsAcrossTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "pronouns", "")
	require.NoError(t, err)

	var res *TurnResult
	for _, text := range []string{nlptest.BuildingTall, nlptest.ItShort, nlptest.CoffeeHot, nlptest.ItCold} {
		res, err = f.sessions.AddMessage(ctx, sess.ID, text, "")
		require.NoError(t, err)
	}

	g := res.Graph
	var links []string
	for _, e := range g.EdgesWithRole(domain.RoleSameAs) {
		srcFrame, tgtFrame := e.EndpointFrames()
		src, ok := g.NodeInFrame(e.Source, srcFrame)
		require.True(t, ok)
		dst, ok := g.NodeInFrame(e.Target, tgtFrame)
		require.True(t, ok)
		links = append(links, src.Label+"->"+dst.Label)
	}
	assert.Equal(t, []string{"It->building", "It->coffee"}, links)

	assert.True(t, hasMessage(res.Diagnostics, "building", "tall", "short"))
	assert.True(t, hasMessage(res.Diagnostics, "coffee", "hot", "cold"))
	assert.False(t, hasMessage(res.Diagnostics, "building", "cold"))
}

func TestSessionService_DiagnosticsReplacedEachTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "s", "s")
	require.NoError(t, err)

	for range 3 {
		_, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.TallShort, "")
		require.NoError(t, err)
	}
	g, err := f.sessions.AccumulatedGraph(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, g.Diagnostics, len(SessionDiagnostics(g)))
	oxymorons := 0
	for _, d := range g.Diagnostics {
		if strings.Contains(d.Message, "contradictory terms") {
			oxymorons++
		}
	}
	assert.Equal(t, 3, oxymorons, "one per turn, never duplicated across turns")
}

func TestSessionService_Mode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "", "story")
	require.NoError(t, err)

	_, err = f.sessions.AddMessage(ctx, sess.ID, nlptest.BuildingTall, domain.ModeFiction)
	require.NoError(t, err)
	res, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.ItShort, domain.ModeFiction)
	require.NoError(t, err)

	contradictions := domain.DiagnosticsOfKind(res.Diagnostics, domain.DiagnosticContradiction)
	require.NotEmpty(t, contradictions)
	for _, d := range contradictions {
		assert.Equal(t, domain.SeverityInfo, d.Severity)
	}

	_, err = f.sessions.AddMessage(ctx, sess.ID, nlptest.ItShort, "Dream")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestSessionService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sessions.AddMessage(ctx, "missing", nlptest.BuildingTall, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.sessions.AddMessage(ctx, "missing", " ", "")
	assert.ErrorIs(t, err, ErrTextEmpty)

	_, err = f.sessions.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.sessions.Rename(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, f.sessions.Delete(ctx, "missing"), ErrSessionNotFound)

	_, err = f.sessions.Create(ctx, "dup", "")
	require.NoError(t, err)
	_, err = f.sessions.Create(ctx, "dup", "")
	assert.ErrorIs(t, err, ErrSessionConflict)
}

func TestSessionService_ListRenameDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := f.sessions.Create(ctx, fmt.Sprintf("s%d", i), "")
		require.NoError(t, err)
	}

	page, total, err := f.sessions.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	page, _, err = f.sessions.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, _, err = f.sessions.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	renamed, err := f.sessions.Rename(ctx, "s1", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Name)

	res, err := f.sessions.AddMessage(ctx, "s0", nlptest.CoffeeHot, "")
	require.NoError(t, err)
	require.NoError(t, f.sessions.Delete(ctx, "s0"))
	_, err = f.store.GetDocument(ctx, res.MessageID)
	assert.ErrorIs(t, err, store.ErrNotFound, "turn documents are removed with the session")
}

func TestSessionService_ConcurrentTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "busy", "")
	require.NoError(t, err)

	const turns = 8
	var wg sync.WaitGroup
	errs := make(chan error, turns)
	for range turns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.CoffeeHot, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	msgs, err := f.sessions.Messages(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, msgs, turns)
	seen := make(map[string]bool)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg_busy_%d", i+1), m.DocID)
		seen[m.DocID] = true
	}
	assert.Len(t, seen, turns)
}

func TestSessionService_ConcurrentRenameAndTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "shared", "before")
	require.NoError(t, err)

	const turns = 6
	var wg sync.WaitGroup
	errs := make(chan error, turns+1)
	for range turns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.sessions.AddMessage(ctx, sess.ID, nlptest.CoffeeHot, "")
			errs <- err
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.sessions.Rename(ctx, sess.ID, "after")
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Len(t, got.Messages, turns)
}

// failingSessions rejects every SaveSession call.
type failingSessions struct {
	*store.MemoryStore
}

func (failingSessions) SaveSession(context.Context, *domain.Session) error {
	return errors.New("disk full")
}

func TestSessionService_FailedSaveLeavesNoTurnDocument(t *testing.T) {
	tests := []struct {
		name string
		mode domain.ProcessingMode
	}{
		{name: "no mode"},
		{name: "fiction mode", mode: domain.ModeFiction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, err := interpret.LoadKnowledgeBase("")
			require.NoError(t, err)
			logger := zap.NewNop()
			st := store.NewMemoryStore()
			in := interpret.NewInterpreter(interpret.NewRegistry(interpret.NewTruthChecker(kb)), logger)
			sessions := NewSessionService(failingSessions{st}, st, st, pipeline.New(nlptest.Annotator(), logger), in, logger)
			ctx := context.Background()

			sess, err := sessions.Create(ctx, "s", "")
			require.NoError(t, err)

			_, err = sessions.AddMessage(ctx, sess.ID, nlptest.BuildingTall, tt.mode)
			require.Error(t, err)

			docs, err := st.ListDocuments(ctx)
			require.NoError(t, err)
			assert.Empty(t, docs)
			_, err = st.GetGraph(ctx, fmt.Sprintf("msg_%s_1", sess.ID))
			assert.ErrorIs(t, err, store.ErrNotFound)

			got, err := sessions.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Messages)
		})
	}
}

func TestSessionService_Export(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.sessions.Create(ctx, "exp", "Export me")
	require.NoError(t, err)
	_, err = f.sessions.AddMessage(ctx, sess.ID, nlptest.FellBecause, "")
	require.NoError(t, err)
	_, err = f.sessions.AddMessage(ctx, sess.ID, nlptest.WantFastApp, "")
	require.NoError(t, err)

	out, err := f.sessions.Export(ctx, sess.ID, FormatJSON)
	require.NoError(t, err)
	js, ok := out.(*SessionExport)
	require.True(t, ok)
	assert.Equal(t, "exp", js.SessionID)
	assert.Equal(t, 2, js.Session.MessageCount)
	assert.Len(t, js.Messages, 2)
	assert.NotNil(t, js.Graph)

	out, err = f.sessions.Export(ctx, sess.ID, FormatMarkdown)
	require.NoError(t, err)
	md, ok := out.(*MarkdownExport)
	require.True(t, ok)
	assert.Equal(t, FormatMarkdown, md.Format)
	for _, want := range []string{"# Session: Export me", "## Transcript", nlptest.FellBecause, "## Goals", "## Events", "## Entities", "## Key Relationships", "trip —Cause→ fall"} {
		assert.Contains(t, md.Content, want)
	}

	_, err = f.sessions.Export(ctx, sess.ID, "pdf")
	assert.ErrorIs(t, err, ErrInvalidExportFormat)
	_, err = f.sessions.Export(ctx, "missing", FormatJSON)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInterceptor(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{name: "oxymoron", messages: []string{nlptest.TallShort}, want: "I was thinking \"tall short\" would be unclear"},
		{name: "ambiguity", messages: []string{nlptest.ItBroken}, want: "Ambiguity detected."},
		{name: "continuity", messages: []string{nlptest.BuildingTall, nlptest.ItShort}, want: "User previously implied 'building be tall', but now implies 'short'."},
		{name: "clean", messages: []string{nlptest.CoffeeHot}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var reply *ChatReply
			for _, m := range tt.messages {
				var err error
				reply, err = f.interceptor.HandleMessage(context.Background(), "", m)
				require.NoError(t, err)
			}
			assert.Equal(t, DefaultSessionID, reply.SessionID)
			if tt.want == "" {
				assert.Empty(t, reply.Warning)
				assert.Equal(t, noIssuesReply, reply.Response)
				return
			}
			assert.Contains(t, reply.Warning, tt.want)
			assert.True(t, strings.HasPrefix(reply.Warning, "[SYSTEM WARNING: "))
			assert.True(t, strings.HasPrefix(reply.Response, "Wait, I'm confused. "))
			assert.NotContains(t, reply.Response, "[SYSTEM WARNING")
		})
	}
}

func TestInterceptor_EmptyMessage(t *testing.T) {
	f := newFixture(t)
	_, err := f.interceptor.HandleMessage(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrTextEmpty)
}
