package domain

import (
	"fmt"
	"strings"
)

// Category is a portfolio content category.
// Its value is also the name of the directory its documents live in.
type Category string

// Content categories.
const (
	CategoryProjects      Category = "projects"
	CategoryEducation     Category = "education"
	CategoryExperience    Category = "experience"
	CategoryCertification Category = "certification"
	CategoryHackathon     Category = "hackathon"
)

// AllCategories returns every category in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryProjects,
		CategoryEducation,
		CategoryExperience,
		CategoryCertification,
		CategoryHackathon,
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProjects, CategoryEducation, CategoryExperience, CategoryCertification, CategoryHackathon:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts user input to a Category.
// Unknown names are rejected rather than mapped to a fallback.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Collection names a vector store bucket.
// There is one per category plus UnifiedCollection, which holds every chunk.
type Collection string

// UnifiedCollection holds every chunk regardless of category.
const UnifiedCollection Collection = "unified"

// CollectionFor returns the collection that holds chunks of the given category.
func CollectionFor(c Category) Collection {
	return Collection(c)
}

// AllCollections returns every managed collection, categories first.
func AllCollections() []Collection {
	cats := AllCategories()
	out := make([]Collection, 0, len(cats)+1)
	for _, c := range cats {
		out = append(out, CollectionFor(c))
	}
	return append(out, UnifiedCollection)
}

// Category returns the category a collection belongs to.
// The second value is false for the unified collection.
func (c Collection) Category() (Category, bool) {
	cat := Category(c)
	return cat, cat.IsValid()
}

// IsUnified reports whether this is the unified collection.
func (c Collection) IsUnified() bool {
	return c == UnifiedCollection
}

// IsValid returns true if the collection is managed by the vector store.
func (c Collection) IsValid() bool {
	if c.IsUnified() {
		return true
	}
	_, ok := c.Category()
	return ok
}

// String returns the string representation.
func (c Collection) String() string {
	return string(c)
}

// categoryPatterns are the keyword patterns used to score a query per category.
var categoryPatterns = map[Category][]string{
	CategoryProjects: {
		"project", "built", "developed", "technology", "code", "nodejs", "python",
		"react", "typescript", "application", "system", "app", "software", "web",
		"frontend", "backend", "fullstack", "database", "api", "framework",
	},
	CategoryEducation: {
		"education", "degree", "university", "study", "academic", "graduation",
		"school", "college", "bachelor", "master", "phd", "course", "learning",
	},
	CategoryExperience: {
		"experience", "work", "job", "company", "role", "professional", "career",
		"employment", "position", "intern", "volunteer", "responsibility",
	},
	CategoryCertification: {
		"certification", "certified", "credential", "aws", "cloud", "certificate",
		"license", "qualification", "training", "skill",
	},
	CategoryHackathon: {
		"hackathon", "competition", "contest", "ibm", "challenge", "event",
		"coding", "programming", "innovation", "startup",
	},
}

// CategoryPatterns returns the keyword patterns for a category.
// The returned slice is a copy.
func CategoryPatterns(c Category) []string {
	patterns := categoryPatterns[c]
	out := make([]string, len(patterns))
	copy(out, patterns)
	return out
}

// TopicKeywords returns the fixed keywords tracked as conversation topics.
func TopicKeywords() []string {
	return []string{"project", "education", "experience", "work", "skill", "certification"}
}
