// Package classify assigns an intent and a confidence to a raw question
// using an ordered cascade of literal phrase fragments.
package classify

import (
	"strings"

	"github.com/AutobookNft/NATAN-LOC-sub001/internal/model"
)

// Classifier walks a PatternSet tier by tier, HIGH to LOW, and returns the
// first tier's confidence on a match. It never errors: unrecognized text
// degrades to the lowest-confidence default, which forces blocking
// downstream.
type Classifier struct {
	patterns *PatternSet
}

// NewClassifier creates a classifier over the given pattern set.
// Pass nil to use the built-in defaults.
func NewClassifier(patterns *PatternSet) *Classifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Classifier{patterns: patterns}
}

// Classify returns the intent and confidence for a question. The tenant and
// model hint are accepted for interface stability; the cascade itself is
// tenant-independent.
func (c *Classifier) Classify(question, tenantID, modelHint string) model.Classification {
	lower := strings.ToLower(question)

	for _, tier := range c.patterns.Tiers {
		for _, entry := range tier.Entries {
			for _, fragment := range entry.Fragments {
				if strings.Contains(lower, fragment) {
					// First tier with a match wins; ties within a
					// tier are not broken further.
					return model.Classification{
						Intent:     entry.Intent,
						Confidence: tier.Confidence,
						Constraints: map[string]string{
							"matched_fragment": fragment,
						},
					}
				}
			}
		}
	}

	// No tier matched: lowest-confidence unknown, below the routing
	// threshold by construction.
	return model.Classification{
		Intent:     model.IntentUnknown,
		Confidence: ConfidenceLow,
	}
}
