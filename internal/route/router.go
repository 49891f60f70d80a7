// Package route maps a classification onto one of three actions: answer
// directly, proceed to strict retrieval-augmented generation, or block.
package route

import (
	"fmt"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

// MinConfidence is the routing gate: any classification below it is
// blocked regardless of intent.
const MinConfidence = 0.5

// defaultTable maps every known intent to an action. Open-ended
// interpretation and an explicit blocked classification map to block
// unconditionally; the router never guesses for anything else.
func defaultTable() map[model.Intent]model.RoutingAction {
	return map[model.Intent]model.RoutingAction{
		model.IntentFactCheck:      model.ActionRAGStrict,
		model.IntentNumerical:      model.ActionRAGStrict,
		model.IntentComparison:     model.ActionRAGStrict,
		model.IntentDefinition:     model.ActionRAGStrict,
		model.IntentProcedure:      model.ActionRAGStrict,
		model.IntentTemporal:       model.ActionRAGStrict,
		model.IntentSpatial:        model.ActionRAGStrict,
		model.IntentPersonal:       model.ActionDirectQuery,
		model.IntentConversational: model.ActionDirectQuery,
		model.IntentInterpretation: model.ActionBlock,
		model.IntentGenerative:     model.ActionBlock,
		model.IntentBlocked:        model.ActionBlock,
		model.IntentUnknown:        model.ActionBlock,
	}
}

// Router is a deterministic intent-to-action gate. The table is read-only
// after construction, so a single Router is safe for concurrent use.
type Router struct {
	table map[model.Intent]model.RoutingAction
}

// NewRouter creates a router with the default action table.
func NewRouter() *Router {
	return &Router{table: defaultTable()}
}

// Route derives the routing decision for a classified question.
//
// Confidence below MinConfidence overrides the table to block, whatever
// the intent. An intent outside the closed set also blocks: an
// unrecognized label must never fall through to a permissive action.
//
// Limitation: the direct_query path sets CanAnswerDirectly but no direct
// answering logic exists yet, so the orchestrator returns a no-op result
// for it. The contract is kept for future use.
func (r *Router) Route(intent model.Intent, confidence float64, question, tenantID string, constraints map[string]string) model.RoutingDecision {
	if confidence < MinConfidence {
		return model.RoutingDecision{
			Action: model.ActionBlock,
			Reason: fmt.Sprintf("confidence %.2f below minimum %.2f", confidence, MinConfidence),
		}
	}

	action, ok := r.table[intent]
	if !ok {
		return model.RoutingDecision{
			Action: model.ActionBlock,
			Reason: fmt.Sprintf("unknown intent %q", intent),
		}
	}

	decision := model.RoutingDecision{
		Action:             action,
		RequiresGeneration: action == model.ActionRAGStrict,
		CanAnswerDirectly:  action == model.ActionDirectQuery,
	}

	switch action {
	case model.ActionRAGStrict:
		decision.Reason = fmt.Sprintf("intent %q requires evidence-grounded generation", intent)
	case model.ActionDirectQuery:
		decision.Reason = fmt.Sprintf("intent %q can be answered without generation", intent)
	case model.ActionBlock:
		decision.Reason = fmt.Sprintf("intent %q is not answerable from the corpus", intent)
	}

	return decision
}
