package domain

// IntentType is the coarse kind of answer a query asks for.
type IntentType string

// Intent types, in the order they are checked.
const (
	IntentDescriptive        IntentType = "descriptive"
	IntentAnalytical         IntentType = "analytical"
	IntentListing            IntentType = "listing"
	IntentTechnologySpecific IntentType = "technology_specific"
	IntentGeneral            IntentType = "general"
)

// String returns the string representation.
func (i IntentType) String() string {
	return string(i)
}

// QueryClassification describes what a query is about.
// It is derived per query and holds no state.
type QueryClassification struct {
	// Categories are the relevant categories, most relevant first.
	Categories []Category

	// Technologies are vocabulary entries found in the query.
	Technologies []string

	// Intent is the coarse intent label.
	Intent IntentType

	// Confidence is the top category score, 0 when nothing matched.
	Confidence float64
}

// TopCategories returns at most n categories.
func (q QueryClassification) TopCategories(n int) []Category {
	if n >= len(q.Categories) {
		return q.Categories
	}
	return q.Categories[:n]
}
