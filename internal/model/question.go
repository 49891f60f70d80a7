package model

// Question is the raw natural-language input to the pipeline.
// It is immutable: stages read it, none of them mutate it.
type Question struct {
	Text     string `json:"text"`                // The question as the user typed it
	TenantID string `json:"tenant_id"`           // Isolation boundary for retrieval
	Persona  string `json:"persona,omitempty"`   // Optional persona hint for model selection
	Model    string `json:"model,omitempty"`     // Optional explicit model override
}

// Intent is the closed taxonomy of question intents.
type Intent string

const (
	IntentFactCheck      Intent = "fact_check"
	IntentNumerical      Intent = "numerical"
	IntentComparison     Intent = "comparison"
	IntentDefinition     Intent = "definition"
	IntentProcedure      Intent = "procedure"
	IntentTemporal       Intent = "temporal"
	IntentSpatial        Intent = "spatial"
	IntentInterpretation Intent = "interpretation"
	IntentPersonal       Intent = "personal"
	IntentConversational Intent = "conversational"
	IntentGenerative     Intent = "generative"
	IntentBlocked        Intent = "blocked"
	IntentUnknown        Intent = "unknown" // Fallback when no pattern matches
)

// KnownIntents lists every value of the closed taxonomy. The router treats
// anything outside this set as unroutable.
var KnownIntents = []Intent{
	IntentFactCheck, IntentNumerical, IntentComparison, IntentDefinition,
	IntentProcedure, IntentTemporal, IntentSpatial, IntentInterpretation,
	IntentPersonal, IntentConversational, IntentGenerative, IntentBlocked,
	IntentUnknown,
}

// Classification is the classifier's verdict on a question.
type Classification struct {
	Intent      Intent            `json:"intent"`
	Confidence  float64           `json:"confidence"`            // In [0,1], one of the tier values
	Constraints map[string]string `json:"constraints,omitempty"` // Optional hints (language, matched fragment)
}

// RoutingAction is the gate decision derived from a classification.
type RoutingAction string

const (
	ActionDirectQuery RoutingAction = "direct_query" // Answer without generation
	ActionRAGStrict   RoutingAction = "rag_strict"   // Proceed to retrieval + generation
	ActionBlock       RoutingAction = "block"        // Refuse outright
)

// RoutingDecision is derived deterministically from a Classification.
// It is never persisted on its own.
type RoutingDecision struct {
	Action             RoutingAction `json:"action"`
	Reason             string        `json:"reason"`
	RequiresGeneration bool          `json:"requires_generation"` // True iff Action == rag_strict
	CanAnswerDirectly  bool          `json:"can_answer_directly"` // True iff Action == direct_query
}
