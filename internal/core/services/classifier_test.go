package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()

	t.Run("technology query without cue", func(t *testing.T) {
		got := c.Classify("What react projects has he built")
		assert.Equal(t, []domain.Category{domain.CategoryProjects}, got.Categories)
		assert.Equal(t, []string{"react"}, got.Technologies)
		assert.Equal(t, domain.IntentTechnologySpecific, got.Intent)
		assert.InDelta(t, 3.0/20, got.Confidence, 1e-9)
	})

	t.Run("descriptive cue wins over technologies", func(t *testing.T) {
		got := c.Classify("Explain his Python and Docker work experience")
		assert.Equal(t, []domain.Category{domain.CategoryExperience}, got.Categories)
		assert.Equal(t, []string{"python", "docker"}, got.Technologies)
		assert.Equal(t, domain.IntentDescriptive, got.Intent)
		assert.InDelta(t, 2.0/12, got.Confidence, 1e-9)
	})

	t.Run("categories ordered by score", func(t *testing.T) {
		got := c.Classify("Describe the web app projects built at university college")
		assert.Equal(t, []domain.Category{domain.CategoryProjects, domain.CategoryEducation}, got.Categories)
		assert.InDelta(t, 4.0/20, got.Confidence, 1e-9)
	})

	t.Run("low scores are dropped but set confidence", func(t *testing.T) {
		got := c.Classify("Tell me about his educational background")
		assert.Empty(t, got.Categories)
		assert.InDelta(t, 1.0/13, got.Confidence, 1e-9)
		assert.Equal(t, domain.IntentDescriptive, got.Intent)
	})

	t.Run("analytical", func(t *testing.T) {
		got := c.Classify("How did he design the backend?")
		assert.Equal(t, domain.IntentAnalytical, got.Intent)
		assert.Empty(t, got.Categories)
	})

	t.Run("listing", func(t *testing.T) {
		got := c.Classify("List his hackathon competition entries")
		assert.Equal(t, domain.IntentListing, got.Intent)
		assert.Equal(t, []domain.Category{domain.CategoryHackathon}, got.Categories)
	})

	t.Run("nothing matches", func(t *testing.T) {
		got := c.Classify("")
		assert.Empty(t, got.Categories)
		assert.Empty(t, got.Technologies)
		assert.Equal(t, domain.IntentGeneral, got.Intent)
		assert.Zero(t, got.Confidence)
	})
}

func TestTopicsIn(t *testing.T) {
	assert.Equal(t, []string{"experience", "work", "skill"}, TopicsIn("My Work experience and skills"))
	assert.Empty(t, TopicsIn("hello"))
}

func TestCategoriesMentioned(t *testing.T) {
	got := CategoriesMentioned("I went to University and built an app")
	assert.Equal(t, []domain.Category{domain.CategoryProjects, domain.CategoryEducation}, got)
}
