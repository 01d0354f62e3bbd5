package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("").IsValid())
	assert.False(t, Category("blog").IsValid())
	assert.False(t, Category("Projects").IsValid())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "exact", input: "projects", want: CategoryProjects},
		{name: "mixed case", input: "Education", want: CategoryEducation},
		{name: "padded", input: "  hackathon ", want: CategoryHackathon},
		{name: "unknown", input: "blog", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllCollections(t *testing.T) {
	cols := AllCollections()

	require.Len(t, cols, len(AllCategories())+1)
	assert.Equal(t, Collection("projects"), cols[0])
	assert.Equal(t, UnifiedCollection, cols[len(cols)-1])
	for _, c := range cols {
		assert.True(t, c.IsValid(), c)
	}
}

func TestCollection_Category(t *testing.T) {
	cat, ok := CollectionFor(CategoryExperience).Category()
	assert.True(t, ok)
	assert.Equal(t, CategoryExperience, cat)

	_, ok = UnifiedCollection.Category()
	assert.False(t, ok)
	assert.True(t, UnifiedCollection.IsUnified())

	assert.False(t, Collection("misc").IsValid())
}

func TestCategoryPatterns(t *testing.T) {
	assert.Len(t, CategoryPatterns(CategoryProjects), 20)
	assert.Len(t, CategoryPatterns(CategoryEducation), 13)
	assert.Len(t, CategoryPatterns(CategoryExperience), 12)
	assert.Len(t, CategoryPatterns(CategoryCertification), 10)
	assert.Len(t, CategoryPatterns(CategoryHackathon), 10)
	assert.Empty(t, CategoryPatterns("blog"))

	t.Run("returns a copy", func(t *testing.T) {
		p := CategoryPatterns(CategoryHackathon)
		p[0] = "changed"
		assert.Equal(t, "hackathon", CategoryPatterns(CategoryHackathon)[0])
	})
}
