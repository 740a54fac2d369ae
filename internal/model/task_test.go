package model_test

import (
	"testing"

	"todoapp/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPriorityRank_Ordering(t *testing.T) {
	assert.Greater(t, model.PriorityRank(model.PriorityHigh), model.PriorityRank(model.PriorityMedium))
	assert.Greater(t, model.PriorityRank(model.PriorityMedium), model.PriorityRank(model.PriorityLow))
	assert.Equal(t, 0, model.PriorityRank("urgent"))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, model.ValidPriority(model.PriorityHigh))
	assert.True(t, model.ValidPriority(model.PriorityMedium))
	assert.True(t, model.ValidPriority(model.PriorityLow))
	assert.False(t, model.ValidPriority(""))
	assert.False(t, model.ValidPriority("urgent"))
}
