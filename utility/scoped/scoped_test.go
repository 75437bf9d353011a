// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scoped_test

import (
	"errors"
	"testing"

	"github.com/devblok/vkcanvas/utility/scoped"
)

var errFake = errors.New("create failed")

func TestReleaseInvokesDestroyerOnce(t *testing.T) {
	calls := 0
	res := scoped.Adopt(42, func(int) { calls++ })

	res.Release()
	res.Release()

	if calls != 1 {
		t.Errorf("destroyer ran %d times, want 1", calls)
	}
	if res.Valid() {
		t.Error("resource still valid after release")
	}
}

func TestUninitializedReleaseIsNoop(t *testing.T) {
	calls := 0
	res := scoped.New(func(int) { calls++ })

	res.Release()

	if calls != 0 {
		t.Errorf("destroyer ran %d times on empty resource", calls)
	}
}

func TestZeroValueReleaseIsNoop(t *testing.T) {
	var res scoped.Resource[int, scoped.None]
	res.Release()
}

func TestTakeOwnershipReleasesPrevious(t *testing.T) {
	var destroyed []int
	res := scoped.Adopt(1, func(h int) { destroyed = append(destroyed, h) })

	res.TakeOwnership(2)
	if len(destroyed) != 1 || destroyed[0] != 1 {
		t.Fatalf("previous handle not released exactly once, got %v", destroyed)
	}
	if !res.Valid() || res.Get() != 2 {
		t.Errorf("resource should own 2, got valid=%v handle=%d", res.Valid(), res.Get())
	}

	res.Release()
	if len(destroyed) != 2 || destroyed[1] != 2 {
		t.Errorf("release after takeover destroyed %v, want [1 2]", destroyed)
	}
}

func TestTakeOwnershipOnEmpty(t *testing.T) {
	calls := 0
	res := scoped.New(func(int) { calls++ })

	res.TakeOwnership(7)
	if calls != 0 {
		t.Error("takeover of empty resource must not call the destroyer")
	}
	if !res.Valid() || res.Get() != 7 {
		t.Error("resource did not adopt the handle")
	}
}

func TestMoveInvalidatesSource(t *testing.T) {
	calls := 0
	src := scoped.Adopt(3, func(int) { calls++ })

	dst := src.Move()

	src.Release()
	if calls != 0 {
		t.Error("moved-from resource released the handle")
	}

	dst.Release()
	if calls != 1 {
		t.Errorf("destroyer ran %d times, want 1", calls)
	}
}

func TestMoveFromReleasesDestinationFirst(t *testing.T) {
	var destroyed []int
	destroy := func(h int) { destroyed = append(destroyed, h) }

	dst := scoped.Adopt(1, destroy)
	src := scoped.Adopt(2, destroy)

	dst.MoveFrom(&src)

	if len(destroyed) != 1 || destroyed[0] != 1 {
		t.Fatalf("destination handle not released first, got %v", destroyed)
	}
	if src.Valid() {
		t.Error("source still valid after move assignment")
	}

	dst.Release()
	src.Release()
	if len(destroyed) != 2 || destroyed[1] != 2 {
		t.Errorf("final destroy sequence %v, want [1 2]", destroyed)
	}
}

func TestMoveFromSelf(t *testing.T) {
	calls := 0
	res := scoped.Adopt(5, func(int) { calls++ })

	res.MoveFrom(&res)
	if !res.Valid() {
		t.Error("self move-assignment invalidated the resource")
	}

	res.Release()
	if calls != 1 {
		t.Errorf("destroyer ran %d times, want 1", calls)
	}
}

func TestContextBoundDestroyer(t *testing.T) {
	type instance struct{ id int }
	owner := &instance{id: 9}

	var gotCtx *instance
	res := scoped.AdoptWithContext(uint64(77), owner, func(h uint64, ctx *instance) {
		gotCtx = ctx
	})

	res.Release()
	if gotCtx != owner {
		t.Error("destroyer did not receive the bound context")
	}
}

func TestMakeWrapsCreatedHandle(t *testing.T) {
	calls := 0
	res, err := scoped.Make(func(int) { calls++ }, func() (int, error) { return 11, nil })
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid() || res.Get() != 11 {
		t.Fatal("created handle not adopted")
	}
	res.Release()
	if calls != 1 {
		t.Errorf("destroyer ran %d times, want 1", calls)
	}
}

func TestMakeFailure(t *testing.T) {
	calls := 0
	res, err := scoped.Make(func(int) { calls++ }, func() (int, error) { return 0, errFake })
	if err == nil {
		t.Fatal("expected creation error")
	}
	if res.Valid() {
		t.Error("failed creation produced a valid resource")
	}
	res.Release()
	if calls != 0 {
		t.Error("destroyer ran for a handle that was never created")
	}
}

// Dependent resources unwind in reverse of acquisition, the owning scope
// always outlives what was created against it.
func TestReverseAcquisitionOrderTeardown(t *testing.T) {
	var order []string
	note := func(name string) func(int) {
		return func(int) { order = append(order, name) }
	}

	instance := scoped.Adopt(1, note("instance"))
	hook := scoped.Adopt(2, note("hook"))
	surface := scoped.Adopt(3, note("surface"))

	surface.Release()
	hook.Release()
	instance.Release()

	want := []string{"surface", "hook", "instance"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("teardown order %v, want %v", order, want)
		}
	}
}
