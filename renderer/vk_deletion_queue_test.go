package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlushReleasesInReverseOrder(t *testing.T) {

	var released []Resource
	q := NewDeletionQueue(func(r Resource) {
		released = append(released, r)
	})

	q.Push(KindBuffer, "vertex buffer")
	q.Push(KindDeviceMemory, "vertex memory")
	q.Push(KindImage, "depth image")
	q.Push(KindImageView, "depth view")
	assert.Equal(t, 4, q.Len())

	q.Flush()

	assert.Equal(t, []Resource{
		{Kind: KindImageView, Handle: "depth view"},
		{Kind: KindImage, Handle: "depth image"},
		{Kind: KindDeviceMemory, Handle: "vertex memory"},
		{Kind: KindBuffer, Handle: "vertex buffer"},
	}, released)
	assert.Equal(t, 0, q.Len())
}

func TestFlushRunsExactlyOnce(t *testing.T) {

	releases := 0
	q := NewDeletionQueue(func(r Resource) { releases++ })

	q.Push(KindBuffer, "b")
	q.Flush()
	q.Flush()
	q.Flush()

	assert.Equal(t, 1, releases)
}

func TestPushAfterFlushPanics(t *testing.T) {

	q := NewDeletionQueue(func(r Resource) {})
	q.Flush()

	assert.Panics(t, func() { q.Push(KindBuffer, "late") })
}

func TestFlushOnEmptyQueueIsHarmless(t *testing.T) {

	q := NewDeletionQueue(func(r Resource) {
		t.Fatal("release must not be called for an empty queue")
	})
	q.Flush()
}

func TestResourceKindStrings(t *testing.T) {

	assert.Equal(t, "Buffer", KindBuffer.String())
	assert.Equal(t, "DeviceMemory", KindDeviceMemory.String())
	assert.Equal(t, "Image", KindImage.String())
	assert.Equal(t, "ImageView", KindImageView.String())
	assert.Equal(t, "Unknown", ResourceKind(99).String())
}
