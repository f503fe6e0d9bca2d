package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	com "ECS_render_engine/common"
)

func TestRebuildDeferredWhileMinimized(t *testing.T) {

	c := &Core{Win: &com.Window{}}
	assert.False(t, c.shouldRebuild(), "no pending resize, nothing to rebuild")

	c.Win.Resized = true
	assert.True(t, c.shouldRebuild())

	// Quitting while minimized leaves the drawable zero-sized. The pending resize must
	// stay pending instead of forcing a rebuild against a zero extent.
	c.Win.Minimized = true
	c.Win.Close = true
	assert.False(t, c.shouldRebuild())

	c.Win.Minimized = false
	assert.True(t, c.shouldRebuild(), "a restored window may act on the pending resize")
}
