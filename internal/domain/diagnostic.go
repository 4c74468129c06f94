package domain

type DiagnosticKind string

const (
	DiagnosticAmbiguity     DiagnosticKind = "Ambiguity"
	DiagnosticContradiction DiagnosticKind = "Contradiction"
	DiagnosticVagueness     DiagnosticKind = "Vagueness"
	DiagnosticKnowledgeGap  DiagnosticKind = "KnowledgeGap"
)

type Severity string

const (
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	NodeID     string         `json:"node_id,omitempty"`
	Provenance []Provenance   `json:"provenance,omitempty"`
}

// DiagnosticsOfKind filters ds preserving order.
func DiagnosticsOfKind(ds []Diagnostic, kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ProcessingMode selects how the interpreter reshapes diagnostics.
type ProcessingMode string

const (
	ModeMap     ProcessingMode = "Map"
	ModeFiction ProcessingMode = "Fiction"
	ModeTruth   ProcessingMode = "Truth"
)

func ValidProcessingMode(m string) bool {
	switch ProcessingMode(m) {
	case ModeMap, ModeFiction, ModeTruth:
		return true
	}
	return false
}
