package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnknownCategory", ErrUnknownCategory},
		{"ErrUnknownCollection", ErrUnknownCollection},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrProcessing", ErrProcessing},
		{"ErrRetrieval", ErrRetrieval},
		{"ErrGeneration", ErrGeneration},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrUnknownCategory, ErrUnknownCollection,
		ErrConfiguration, ErrProcessing, ErrRetrieval, ErrGeneration,
		ErrLLMUnavailable, ErrEmbeddingUnavailable, ErrVectorStoreUnavailable,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("query collection %q: %w", "projects", ErrRetrieval)

	assert.True(t, errors.Is(err, ErrRetrieval))
	assert.False(t, errors.Is(err, ErrGeneration))
	assert.Contains(t, err.Error(), "retrieval error")
}
