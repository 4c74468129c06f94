package domain

import "context"

type PluginContext struct {
	DocID string
}

type KnowledgeValidation struct {
	CheckType string `json:"check_type"`
	Verdict   string `json:"verdict"`
	Rationale string `json:"rationale,omitempty"`
}

type PluginResult struct {
	Diagnostics          []Diagnostic          `json:"diagnostics,omitempty"`
	GraphUpdates         *GraphDelta           `json:"graph_updates,omitempty"`
	KnowledgeValidations []KnowledgeValidation `json:"knowledge_validations,omitempty"`
}

// Plugin is an interpretation extension run in Truth mode.
type Plugin interface {
	ID() string
	Version() string
	Run(ctx context.Context, g *MeaningGraph, pc PluginContext) (*PluginResult, error)
}

type PluginInfo struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// LLMClient completes a single prompt.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
