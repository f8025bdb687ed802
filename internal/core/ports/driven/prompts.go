package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Implementations should fall back to an embedded default when a
	// customised prompt is unavailable.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used by the combination engine.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptCombine asks a model to combine two concepts into one.
	// The template expects two %s placeholders: labelA and labelB.
	PromptCombine = "combine"

	// PromptAdjudicate asks a model to pick the best candidate.
	// The template expects three %s placeholders: labelA, labelB and a
	// newline-separated candidate list.
	PromptAdjudicate = "adjudicate"

	// PromptSystem frames every generation request.
	// This prompt has no format placeholders.
	PromptSystem = "system"
)
