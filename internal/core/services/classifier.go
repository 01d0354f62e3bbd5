package services

import (
	"sort"
	"strings"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

// minCategoryScore is the score a category must exceed to be reported.
const minCategoryScore = 0.1

// intentCues are checked in order; the first intent with a matching cue wins.
var intentCues = []struct {
	intent domain.IntentType
	cues   []string
}{
	{domain.IntentDescriptive, []string{"tell me about", "what is", "describe", "explain"}},
	{domain.IntentAnalytical, []string{"how", "why", "when", "where"}},
	{domain.IntentListing, []string{"list", "show me", "what are"}},
}

// Classifier labels queries with categories, technologies and an intent.
// It is stateless and safe for concurrent use.
type Classifier struct {
	categories []domain.Category
}

// NewClassifier creates a classifier over every content category.
func NewClassifier() *Classifier {
	return &Classifier{categories: domain.AllCategories()}
}

// Classify scores query against each category's keyword patterns.
//
// A category's score is the fraction of its patterns found in the query.
// Categories scoring above 0.1 are returned best first; ties keep
// category order.
func (c *Classifier) Classify(query string) domain.QueryClassification {
	lower := strings.ToLower(query)

	type scored struct {
		category domain.Category
		score    float64
	}
	var scores []scored
	for _, cat := range c.categories {
		patterns := domain.CategoryPatterns(cat)
		if len(patterns) == 0 {
			continue
		}
		hits := 0
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				hits++
			}
		}
		if hits > 0 {
			scores = append(scores, scored{cat, float64(hits) / float64(len(patterns))})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	result := domain.QueryClassification{
		Technologies: domain.ScanTechnologies(lower),
		Intent:       domain.IntentGeneral,
	}
	if len(scores) > 0 {
		result.Confidence = scores[0].score
	}
	for _, s := range scores {
		if s.score > minCategoryScore {
			result.Categories = append(result.Categories, s.category)
		}
	}

	result.Intent = classifyIntent(lower, len(result.Technologies) > 0)
	return result
}

// classifyIntent applies the ordered cue checks to a lower-cased query.
func classifyIntent(lower string, hasTechnologies bool) domain.IntentType {
	for _, ic := range intentCues {
		for _, cue := range ic.cues {
			if strings.Contains(lower, cue) {
				return ic.intent
			}
		}
	}
	if hasTechnologies {
		return domain.IntentTechnologySpecific
	}
	return domain.IntentGeneral
}

// TopicsIn returns the topic keywords that occur in text.
func TopicsIn(text string) []string {
	lower := strings.ToLower(text)
	var topics []string
	for _, kw := range domain.TopicKeywords() {
		if strings.Contains(lower, kw) {
			topics = append(topics, kw)
		}
	}
	return topics
}

// CategoriesMentioned returns the categories any of whose patterns
// occur in text, in category order.
func CategoriesMentioned(text string) []domain.Category {
	lower := strings.ToLower(text)
	var out []domain.Category
	for _, cat := range domain.AllCategories() {
		for _, p := range domain.CategoryPatterns(cat) {
			if strings.Contains(lower, p) {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}
