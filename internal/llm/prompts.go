package llm

import "fmt"

const systemPrompt = `You are a semantic parser. You turn short conversational text into a meaning graph and answer with JSON only.`

const graphPrompt = `Extract a meaning graph from the text below.

Nodes have:
- id: a short unique identifier
- label: the word or phrase
- type: one of "Entity", "Event", "Claim", "ContextFrame", "Goal"
- properties: optional object (modality, polarity, label)
- span: optional {"start": int, "end": int} character offsets into the text

Edges have:
- source and target: node ids
- role: one of "Agent", "Patient", "Theme", "Goal", "Time", "Location", "Cause", "Condition",
  "Contrast", "Support", "Contradiction", "Sequence", "SameAs", "Refers_to"

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"nodes":[{"id":"n1","label":"Gregor","type":"Entity"},{"id":"n2","label":"woke","type":"Event"}],"edges":[{"source":"n2","target":"n1","role":"Agent"}]}

If nothing can be extracted, respond with {"nodes":[],"edges":[]}

Text:
%s`

// GraphPrompt builds the graph extraction prompt for text.
func GraphPrompt(text string) string {
	return fmt.Sprintf(graphPrompt, text)
}
