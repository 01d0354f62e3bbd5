package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names fall back to the built-in template when one exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer is the grounded answer prompt.
	// Placeholders: {owner}, {context}, {question}.
	PromptAnswer = "answer"

	// PromptFollowUp asks for three follow-up questions.
	// Placeholders: {owner}, {context}, {question}, {response}.
	PromptFollowUp = "follow_up"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses the built-in templates.
	SetPromptStore(store PromptStore)
}
