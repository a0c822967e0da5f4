package playground

import (
	"reflect"
	"testing"
)

func TestUniformReconcile_CreatesFromDeclarations(t *testing.T) {
	host := newRecordingHost()
	reg := NewUniformBindingRegistry(host)

	reg.Reconcile([]UniformDecl{
		{Name: "radius", Default: 0.5, Min: 0, Max: 1},
		{Name: "speed", Default: 1, Min: 0, Max: 10},
	})

	if got := reg.Names(); !reflect.DeepEqual(got, []string{"radius", "speed"}) {
		t.Errorf("Names() = %v, want [radius speed]", got)
	}
	if got := host.createdNames(); len(got) != 2 {
		t.Errorf("created %v, want two controls", got)
	}
	if r := host.ranges["speed"]; r != [2]float32{0, 10} {
		t.Errorf("speed range = %v, want [0 10]", r)
	}
}

func TestUniformReconcile_PreservesSurvivingHandles(t *testing.T) {
	host := newRecordingHost()
	reg := NewUniformBindingRegistry(host)

	// {a, b} -> {b, c}: b keeps its handle, a is disposed, c is created.
	reg.Reconcile([]UniformDecl{
		{Name: "a", Min: 0, Max: 1},
		{Name: "b", Min: 0, Max: 1},
	})
	bHandle, ok := reg.Lookup("b")
	if !ok {
		t.Fatal("b not bound after first reconcile")
	}

	reg.Reconcile([]UniformDecl{
		{Name: "b", Min: 0, Max: 1},
		{Name: "c", Min: 0, Max: 1},
	})

	if got, _ := reg.Lookup("b"); got != bHandle {
		t.Errorf("b handle changed: %d -> %d", bHandle, got)
	}
	if _, ok := reg.Lookup("a"); ok {
		t.Error("a still bound after removal")
	}
	if _, ok := reg.Lookup("c"); !ok {
		t.Error("c not bound after reconcile")
	}
	if got := host.disposedNames(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("disposed %v, want [a]", got)
	}
	if got := host.createdNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("created %v, want [a b c]", got)
	}
}

func TestUniformReconcile_RangeChangeIsInPlaceUpdate(t *testing.T) {
	host := newRecordingHost()
	reg := NewUniformBindingRegistry(host)

	reg.Reconcile([]UniformDecl{{Name: "zoom", Default: 1, Min: 0, Max: 2}})
	handle, _ := reg.Lookup("zoom")

	// Same name, new range: no create/destroy cycle, range updated.
	reg.Reconcile([]UniformDecl{{Name: "zoom", Default: 1, Min: 0, Max: 8}})

	if got, _ := reg.Lookup("zoom"); got != handle {
		t.Errorf("zoom handle changed on range update: %d -> %d", handle, got)
	}
	if got := host.disposedNames(); len(got) != 0 {
		t.Errorf("disposed %v, want none", got)
	}
	if r := host.ranges["zoom"]; r != [2]float32{0, 8} {
		t.Errorf("zoom range = %v, want [0 8]", r)
	}
	if d, _ := reg.Decl("zoom"); d.Max != 8 {
		t.Errorf("stored decl Max = %v, want 8", d.Max)
	}
}

func TestUniformReconcile_UnchangedRangeDoesNotTouchHost(t *testing.T) {
	host := newRecordingHost()
	reg := NewUniformBindingRegistry(host)

	decls := []UniformDecl{{Name: "gain", Default: 0.25, Min: 0, Max: 1}}
	reg.Reconcile(decls)
	before := host.ranges["gain"]

	reg.Reconcile(decls)

	if got := host.createdNames(); len(got) != 1 {
		t.Errorf("created %v, want exactly one control", got)
	}
	if host.ranges["gain"] != before {
		t.Errorf("range rewritten without change: %v", host.ranges["gain"])
	}
}
