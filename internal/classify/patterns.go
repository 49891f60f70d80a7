package classify

import "github.com/AutobookNft/NATAN-LOC-sub001/internal/model"

// Tier confidence levels, highest first. A match in a higher tier always
// wins over any match in a lower tier.
const (
	ConfidenceHigh       = 0.95
	ConfidenceMediumHigh = 0.85
	ConfidenceMedium     = 0.70
	ConfidenceMediumLow  = 0.55
	ConfidenceLow        = 0.40
)

// PatternEntry holds the literal fragments that map to one intent
// within a tier.
type PatternEntry struct {
	Intent    model.Intent
	Fragments []string
}

// PatternTier groups entries sharing one confidence level.
type PatternTier struct {
	Confidence float64
	Entries    []PatternEntry
}

// PatternSet is the ordered cascade the classifier walks, HIGH to LOW.
// Keeping it as plain data makes tiers and fragments independently
// testable and extensible.
type PatternSet struct {
	Tiers []PatternTier
}

// DefaultPatterns returns the built-in cascade. Fragments are lower-case;
// the corpus is mostly Italian with common English phrasings mixed in.
// Specific literal phrasing sits in the high tiers, generic phrasing in
// the low ones, so specificity wins by construction.
func DefaultPatterns() *PatternSet {
	return &PatternSet{
		Tiers: []PatternTier{
			{
				Confidence: ConfidenceHigh,
				Entries: []PatternEntry{
					{Intent: model.IntentPersonal, Fragments: []string{
						"mi chiamo", "il mio nome", "my name is", "chi sono io",
					}},
					{Intent: model.IntentBlocked, Fragments: []string{
						"ignora le istruzioni", "ignore previous instructions",
						"ignora il contesto", "disregard the context",
					}},
					{Intent: model.IntentFactCheck, Fragments: []string{
						"è vero che", "is it true that", "conferma che", "verifica se",
					}},
					{Intent: model.IntentNumerical, Fragments: []string{
						"quanto costa", "quanti sono", "how many", "how much",
						"qual è il totale", "qual è l'importo",
					}},
					{Intent: model.IntentTemporal, Fragments: []string{
						"in che data", "in che anno", "quando è stato", "when did", "when was",
					}},
					{Intent: model.IntentSpatial, Fragments: []string{
						"dove si trova", "in quale luogo", "where is", "where was",
					}},
					{Intent: model.IntentProcedure, Fragments: []string{
						"come si fa", "quali sono i passaggi", "step by step",
						"qual è la procedura", "how do i",
					}},
				},
			},
			{
				Confidence: ConfidenceMediumHigh,
				Entries: []PatternEntry{
					{Intent: model.IntentDefinition, Fragments: []string{
						"cosa significa", "che cos'è", "cosa si intende per",
						"what does", "what is the meaning",
					}},
					{Intent: model.IntentComparison, Fragments: []string{
						"differenza tra", "difference between", "meglio di",
						"confronta", "compared to", "rispetto a",
					}},
					{Intent: model.IntentGenerative, Fragments: []string{
						"scrivi una", "scrivi un", "inventa", "immagina",
						"write a story", "write a poem", "componi",
					}},
				},
			},
			{
				Confidence: ConfidenceMedium,
				Entries: []PatternEntry{
					{Intent: model.IntentNumerical, Fragments: []string{
						"quanto", "quanti", "quante", "percentuale", "importo",
					}},
					{Intent: model.IntentTemporal, Fragments: []string{
						"quando", "data di", "anno di", "scadenza",
					}},
					{Intent: model.IntentSpatial, Fragments: []string{
						"dove", "indirizzo", "località",
					}},
					{Intent: model.IntentInterpretation, Fragments: []string{
						"secondo te", "cosa ne pensi", "what do you think",
						"qual è la tua opinione", "interpreta",
					}},
				},
			},
			{
				Confidence: ConfidenceMediumLow,
				Entries: []PatternEntry{
					{Intent: model.IntentDefinition, Fragments: []string{
						"significa", "definizione", "spiega",
					}},
					{Intent: model.IntentProcedure, Fragments: []string{
						"come", "procedura", "istruzioni",
					}},
					{Intent: model.IntentFactCheck, Fragments: []string{
						"è corretto", "davvero", "veramente",
					}},
				},
			},
			{
				Confidence: ConfidenceLow,
				Entries: []PatternEntry{
					{Intent: model.IntentConversational, Fragments: []string{
						"ciao", "grazie", "buongiorno", "hello", "thanks", "per favore",
					}},
					{Intent: model.IntentFactCheck, Fragments: []string{
						"chi", "cosa", "quale",
					}},
				},
			},
		},
	}
}
