package services

import (
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// defaultSystemPrompt frames every generation request.
const defaultSystemPrompt = `You are a creative assistant that combines elements in unique ways.`

// defaultCombinePrompt is the fallback candidate-generation prompt when no
// PromptStore is configured. It states the task, the strict output format,
// and a handful of worked examples.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultCombinePrompt = `Combine "%s" and "%s" into a single concept. It should be as semantically logical a result as possible, using metaphoric reasoning.

STRICT RULES:
1. Respond with ONLY 1 to 3 words. No exceptions.
2. Prefer single-word or two-word responses.
3. Use Title Case (capitalise the first letter of each word).
4. Do not use any punctuation.
5. The result must be a noun, or a short noun phrase.
6. Ensure a logical connection to both original elements.
7. Prefer concrete things with existing references over coined portmanteaus.

Examples:
"Fire + Water = Steam. Your response would be only: Steam"
"Earth + Wind = Dust. Your response would be only: Dust"
"Lava + Mountain = Volcano. Your response would be only: Volcano"
"Steam + Wood = Train. Your response would be only: Train"
"Gold + Lake = Pirate. Your response would be only: Pirate"
"Night + Paris = Eiffel Tower. Your response would be only: Eiffel Tower"

Respond with only the resulting combination, nothing else.`

// defaultAdjudicatePrompt is the fallback adjudication prompt. It lists the
// candidate labels and asks for a single winner as JSON so the explanation
// can be captured alongside the choice.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultAdjudicatePrompt = `Two game elements, "%s" and "%s", were combined. Several candidate results were produced:

%s

Pick the single best candidate. Judge by: logical and semantic connection to BOTH inputs, concreteness (a real or well-known referent beats a vague coinage), and conformance to the format rules (1 to 3 words, Title Case, no punctuation).

Respond with ONLY a JSON object of the form:
{"result": "<the winning candidate>", "explanation": "<one short sentence>"}`

// defaultPrompts maps well-known prompt names to embedded defaults.
var defaultPrompts = map[string]string{
	driven.PromptSystem:     defaultSystemPrompt,
	driven.PromptCombine:    defaultCombinePrompt,
	driven.PromptAdjudicate: defaultAdjudicatePrompt,
}

// loadPrompt loads a prompt from the store, falling back to the embedded
// default when no store is configured or the named prompt is unavailable.
func loadPrompt(store driven.PromptStore, name string) string {
	if store == nil {
		return defaultPrompts[name]
	}
	prompt, err := store.Load(name)
	if err != nil || prompt == "" {
		return defaultPrompts[name]
	}
	return prompt
}
