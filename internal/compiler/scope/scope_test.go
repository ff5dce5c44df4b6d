package scope

import (
	"reflect"
	"testing"

	"github.com/arnavsurve/minipas/internal/compiler/value"
)

func TestSetGet(t *testing.T) {
	env := New()
	if _, ok := env.Get("a"); ok {
		t.Fatalf("fresh environment should not contain 'a'")
	}

	env.Set("a", value.Int64(1))
	env.Set("b", value.Int64(2))
	env.Set("a", value.Int64(3))

	got, ok := env.Get("a")
	if !ok || !got.Equal(value.Int64(3)) {
		t.Fatalf("Get(a) expected=3, got=%s ok=%v", got, ok)
	}
	if env.Len() != 2 {
		t.Fatalf("Len expected=2, got=%d", env.Len())
	}
	if names := env.Names(); !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("Names expected=[a b], got=%v", names)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	env := New()
	env.Set("x", value.Int64(1))
	snap := env.Snapshot()
	env.Set("x", value.Int64(2))
	env.Set("y", value.Int64(3))

	if len(snap) != 1 || !snap["x"].Equal(value.Int64(1)) {
		t.Fatalf("snapshot changed after later assignments: %v", snap)
	}
}

func TestEnvironmentsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Set("v", value.Int64(1))
	if _, ok := b.Get("v"); ok {
		t.Fatalf("binding leaked between environments")
	}
}
