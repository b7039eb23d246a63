package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picboard/picboard-backend/errs"
)

func TestNormalizeTags_SplitsOnWhitespace(t *testing.T) {
	tokens, err := NormalizeTags("  red   race_car\tbmw\nm3 ", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "race_car", "bmw", "m3"}, tokens)
}

func TestNormalizeTags_PreservesDuplicates(t *testing.T) {
	// Duplicates survive tokenization; the association table collapses them.
	tokens, err := NormalizeTags("red red blue green yellow", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "red", "blue", "green", "yellow"}, tokens)
}

func TestNormalizeTags_TooFewTags(t *testing.T) {
	_, err := NormalizeTags("red blue green", 4)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Minimum 4 space separated tags. ie: red race_car bmw m3")
}

func TestNormalizeTags_DuplicatesDoNotCountTowardMinimum(t *testing.T) {
	_, err := NormalizeTags("red red red red", 4)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestNormalizeTags_EmptyExpression(t *testing.T) {
	_, err := NormalizeTags("", 4)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestNormalizeTags_LowerMinimum(t *testing.T) {
	tokens, err := NormalizeTags("solo", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, tokens)
}
