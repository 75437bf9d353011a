// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scoped implements scope-bound ownership for externally created
// handles that must be torn down with an explicit destroy call. Native
// graphics handles are the target use case: a handle is released with a
// specific destroy function, sometimes parameterized by the owning context
// it was created against, like a surface that must be destroyed against its
// instance. The context-carrying variant binds that owning scope as a value
// at construction time, so no back-pointer to another object is needed.
package scoped

// None is the context type for resources whose destroyer takes no
// auxiliary argument.
type None struct{}

// Destroyer releases a handle. The context argument carries whatever the
// destroy call needs to address the correct owning scope.
type Destroyer[T, C any] func(T, C)

// Resource owns a single handle and guarantees the destroyer runs at most
// once per acquired handle. The zero value is an empty resource: releasing
// it is a no-op and it cannot destroy anything until a destroyer is set
// through one of the constructors.
//
// Ownership is unique. A Resource must not be copied; hand it to another
// owner with Move or MoveFrom, which invalidate the source. Accessing the
// handle of an invalid Resource is the caller's mistake, Get does not
// check.
//
// Not safe for concurrent use.
type Resource[T, C any] struct {
	handle  T
	ctx     C
	destroy Destroyer[T, C]
	valid   bool
}

// New creates an uninitialized resource with a context-free destroyer.
// The resource holds no handle until TakeOwnership is called.
func New[T any](destroy func(T)) Resource[T, None] {
	return NewWithContext[T](None{}, func(handle T, _ None) { destroy(handle) })
}

// NewWithContext creates an uninitialized resource whose destroyer will be
// invoked with the given context value.
func NewWithContext[T, C any](ctx C, destroy Destroyer[T, C]) Resource[T, C] {
	return Resource[T, C]{ctx: ctx, destroy: destroy}
}

// Adopt creates a resource that immediately owns handle.
func Adopt[T any](handle T, destroy func(T)) Resource[T, None] {
	return AdoptWithContext(handle, None{}, func(handle T, _ None) { destroy(handle) })
}

// AdoptWithContext creates a resource that immediately owns handle, with a
// destroyer bound to the given context value.
func AdoptWithContext[T, C any](handle T, ctx C, destroy Destroyer[T, C]) Resource[T, C] {
	return Resource[T, C]{handle: handle, ctx: ctx, destroy: destroy, valid: true}
}

// Make creates the handle with create and wraps it. When create fails, the
// returned resource is empty and releasing it is a no-op.
func Make[T any](destroy func(T), create func() (T, error)) (Resource[T, None], error) {
	handle, err := create()
	if err != nil {
		return Resource[T, None]{}, err
	}
	return Adopt(handle, destroy), nil
}

// MakeWithContext is Make for destroyers that need an owning context.
func MakeWithContext[T, C any](ctx C, destroy Destroyer[T, C], create func() (T, error)) (Resource[T, C], error) {
	handle, err := create()
	if err != nil {
		return Resource[T, C]{}, err
	}
	return AdoptWithContext(handle, ctx, destroy), nil
}

// TakeOwnership adopts a new handle, releasing the currently held one
// first. The resource is always valid afterwards.
func (r *Resource[T, C]) TakeOwnership(handle T) {
	r.Release()
	r.handle = handle
	r.valid = true
}

// Get returns the raw handle for native calls. The handle of an invalid
// resource is stale or zero, Get does not guard against that.
func (r *Resource[T, C]) Get() T {
	return r.handle
}

// Valid reports whether the resource currently owns a live handle.
func (r *Resource[T, C]) Valid() bool {
	return r.valid
}

// Release invokes the destroyer if the resource is valid and clears
// validity. Calling it again, or on a moved-from resource, does nothing.
func (r *Resource[T, C]) Release() {
	if r.valid {
		r.destroy(r.handle, r.ctx)
		r.valid = false
	}
}

// Move transfers ownership to the returned resource and invalidates the
// receiver. Releasing the receiver afterwards is a no-op.
func (r *Resource[T, C]) Move() Resource[T, C] {
	moved := *r
	r.valid = false
	return moved
}

// MoveFrom releases whatever the receiver currently owns, then takes
// everything from src and invalidates it.
func (r *Resource[T, C]) MoveFrom(src *Resource[T, C]) {
	if r == src {
		return
	}
	r.Release()
	*r = *src
	src.valid = false
}
