package renderer

import (
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"
)

// ResourceKind discriminates what a queued handle is, so one interpreter function can release every
// entry.
type ResourceKind int

const (
	KindBuffer ResourceKind = iota
	KindDeviceMemory
	KindImage
	KindImageView
)

func (k ResourceKind) String() string {
	switch k {
	case KindBuffer:
		return "Buffer"
	case KindDeviceMemory:
		return "DeviceMemory"
	case KindImage:
		return "Image"
	case KindImageView:
		return "ImageView"
	default:
		return "Unknown"
	}
}

// Resource is one queued release: a kind tag plus the raw handle.
type Resource struct {
	Kind   ResourceKind
	Handle any
}

// DeletionQueue records resources in registration order and releases them in reverse order on Flush, so
// dependents go before their dependencies. Flush runs at most once; later calls are no-ops. The release
// function is injected so the queue itself stays free of device state.
type DeletionQueue struct {
	release   func(Resource)
	resources []Resource
	flushed   bool
}

func NewDeletionQueue(release func(Resource)) *DeletionQueue {
	return &DeletionQueue{release: release}
}

// Push appends a resource to the queue. Pushing after a flush is a bug in the caller.
func (q *DeletionQueue) Push(kind ResourceKind, handle any) {
	if q.flushed {
		zap.S().Panicf("deletion queue already flushed, cannot queue %s", kind)
	}
	q.resources = append(q.resources, Resource{Kind: kind, Handle: handle})
}

// Len returns the number of queued resources.
func (q *DeletionQueue) Len() int {
	return len(q.resources)
}

// Flush releases every queued resource in reverse registration order, exactly once.
func (q *DeletionQueue) Flush() {
	if q.flushed {
		return
	}
	q.flushed = true
	for i := len(q.resources) - 1; i >= 0; i-- {
		q.release(q.resources[i])
	}
	q.resources = nil
}

// releaseResource is the Vulkan interpreter for queued resources.
func (c *Core) releaseResource(r Resource) {
	switch r.Kind {
	case KindBuffer:
		vk.DestroyBuffer(c.device.Device, r.Handle.(vk.Buffer), nil)
	case KindDeviceMemory:
		vk.FreeMemory(c.device.Device, r.Handle.(vk.DeviceMemory), nil)
	case KindImage:
		vk.DestroyImage(c.device.Device, r.Handle.(vk.Image), nil)
	case KindImageView:
		vk.DestroyImageView(c.device.Device, r.Handle.(vk.ImageView), nil)
	default:
		zap.S().Panicf("cannot release resource of unknown kind %d", r.Kind)
	}
}
