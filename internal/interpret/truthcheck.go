package interpret

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Harshitk-cp/lide/internal/domain"
	"gopkg.in/yaml.v3"
)

const TruthCheckerID = "truth-checker"

//go:embed knowledge.yaml
var defaultKnowledge []byte

// KnowledgeRule fires when an event whose label contains Event has an outgoing
// edge to a node whose label contains Target.
type KnowledgeRule struct {
	Key       string `yaml:"key"`
	Event     string `yaml:"event"`
	Target    string `yaml:"target"`
	Premise   string `yaml:"premise"`
	Verdict   string `yaml:"verdict"`
	CheckType string `yaml:"check_type"`
}

type KnowledgeBase struct {
	Version string          `yaml:"version"`
	Rules   []KnowledgeRule `yaml:"rules"`
}

func ParseKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	for i, r := range kb.Rules {
		if r.Event == "" || r.Target == "" {
			return nil, fmt.Errorf("knowledge rule %d (%s): event and target are required", i, r.Key)
		}
		kb.Rules[i].Event = strings.ToLower(r.Event)
		kb.Rules[i].Target = strings.ToLower(r.Target)
		if kb.Rules[i].CheckType == "" {
			kb.Rules[i].CheckType = "plausibility"
		}
	}
	if kb.Version == "" {
		kb.Version = engineVersion
	}
	return &kb, nil
}

// LoadKnowledgeBase reads a YAML knowledge base from path, or returns the
// built-in one when path is empty.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	if path == "" {
		return ParseKnowledgeBase(defaultKnowledge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	return ParseKnowledgeBase(data)
}

type TruthChecker struct {
	kb *KnowledgeBase
}

func NewTruthChecker(kb *KnowledgeBase) *TruthChecker {
	return &TruthChecker{kb: kb}
}

func (c *TruthChecker) ID() string      { return TruthCheckerID }
func (c *TruthChecker) Version() string { return c.kb.Version }

func (c *TruthChecker) Run(_ context.Context, g *domain.MeaningGraph, pc domain.PluginContext) (*domain.PluginResult, error) {
	res := &domain.PluginResult{}
	for _, evt := range g.NodesOfType(domain.NodeEvent, domain.NodeGoal) {
		label := strings.ToLower(evt.Label)
		for _, rule := range c.kb.Rules {
			if !strings.Contains(label, rule.Event) || !c.targets(g, evt.ID, rule.Target) {
				continue
			}
			res.Diagnostics = append(res.Diagnostics, domain.Diagnostic{
				Kind:     domain.DiagnosticKnowledgeGap,
				Severity: domain.SeverityWarning,
				Message:  "Validation Warning: " + rule.Premise,
				NodeID:   evt.ID,
				Provenance: []domain.Provenance{{
					SourceDoc:     pc.DocID,
					EngineID:      TruthCheckerID,
					EngineVersion: c.kb.Version,
					Confidence:    1.0,
					Receipts:      []map[string]any{{"kb_key": rule.Key, "verdict": rule.Verdict}},
				}},
			})
			res.KnowledgeValidations = append(res.KnowledgeValidations, domain.KnowledgeValidation{
				CheckType: rule.CheckType,
				Verdict:   rule.Verdict,
				Rationale: rule.Premise,
			})
		}
	}
	return res, nil
}

func (c *TruthChecker) targets(g *domain.MeaningGraph, eventID, target string) bool {
	for _, e := range g.EdgesFrom(eventID) {
		if n, ok := g.Node(e.Target); ok && strings.Contains(strings.ToLower(n.Label), target) {
			return true
		}
	}
	return false
}
