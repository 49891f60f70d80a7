package llm

import "github.com/AutobookNft/NATAN-LOC-sub001/internal/model"

// Task classes for model selection.
const (
	TaskEmbedding  = "embedding"
	TaskGeneration = "generation"
)

// Policy resolves which provider and model serve a request. It is a
// configuration dispatch, not decision logic: an ordered rule list where
// empty rule fields match anything, followed by the configured default as
// the end of the fallback chain.
type Policy struct {
	rules      []model.ModelRule
	generation Config
	embedding  Config
}

// NewPolicy creates a policy from the runtime configuration.
func NewPolicy(cfg *model.Config) *Policy {
	return &Policy{
		rules:      cfg.Policy,
		generation: GenerationConfig(cfg.LLM),
		embedding:  EmbeddingConfig(cfg.Embedding, cfg.LLM),
	}
}

// Select returns the provider configs to try, in order. Every matching
// rule contributes a candidate; the configured default always terminates
// the chain so selection never comes up empty.
//
// modelOverride, when set, pins the model on the first candidate.
func (p *Policy) Select(tenantID, taskClass, persona, modelOverride string) []Config {
	base := p.generation
	if taskClass == TaskEmbedding {
		base = p.embedding
	}

	var candidates []Config
	for _, rule := range p.rules {
		if !ruleMatches(rule, tenantID, taskClass, persona) {
			continue
		}
		c := base
		if rule.Provider != "" {
			c.Provider = rule.Provider
		}
		c.Model = rule.Model
		candidates = append(candidates, c)
	}
	candidates = append(candidates, base)

	if modelOverride != "" {
		candidates[0].Model = modelOverride
	}
	return candidates
}

func ruleMatches(rule model.ModelRule, tenantID, taskClass, persona string) bool {
	if rule.Tenant != "" && rule.Tenant != tenantID {
		return false
	}
	if rule.TaskClass != "" && rule.TaskClass != taskClass {
		return false
	}
	if rule.Persona != "" && rule.Persona != persona {
		return false
	}
	return true
}
