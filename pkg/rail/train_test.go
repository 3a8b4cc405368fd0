package rail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTier(t *testing.T) {
	assert.Equal(t, TierLocal, ClassifyTier(24))
	assert.Equal(t, TierLocal, ClassifyTier(20))
	assert.Equal(t, TierLimited, ClassifyTier(19))
	assert.Equal(t, TierLimited, ClassifyTier(13))
	assert.Equal(t, TierExpress, ClassifyTier(12))
	assert.Equal(t, TierExpress, ClassifyTier(5))
	assert.Equal(t, TierExpress, ClassifyTier(0))
}
