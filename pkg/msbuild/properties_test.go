package msbuild

import "testing"

func TestPropertiesInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("Zeta", "1")
	p.Set("Alpha", "2")
	p.Set("Mid", "3")

	names := p.Names()
	want := []string{"Zeta", "Alpha", "Mid"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected name %q at %d, got %q", want[i], i, names[i])
		}
	}
}

func TestPropertiesTryGet(t *testing.T) {
	p := NewProperties()
	p.Set("TargetFramework", "net6.0")

	if v, ok := p.Get("TargetFramework"); !ok || v != "net6.0" {
		t.Fatalf("expected (net6.0, true), got (%q, %t)", v, ok)
	}
	if v, ok := p.Get("DefiningProjectDirectory"); ok || v != "" {
		t.Fatalf("expected absent lookup to return (\"\", false), got (%q, %t)", v, ok)
	}

	var nilBag *Properties
	if _, ok := nilBag.Get("anything"); ok {
		t.Fatal("nil bag lookup must report absent")
	}
	if nilBag.Len() != 0 {
		t.Fatalf("nil bag length must be 0, got %d", nilBag.Len())
	}
}

func TestPropertiesCloneIsIndependent(t *testing.T) {
	p := NewProperties()
	p.Set("a", "1")

	c := p.Clone()
	c.Set("a", "changed")
	c.Set("b", "2")

	if v, _ := p.Get("a"); v != "1" {
		t.Fatalf("mutating a clone leaked into the original: a=%q", v)
	}
	if _, ok := p.Get("b"); ok {
		t.Fatal("key added to clone appeared in the original")
	}
}

func TestPropertiesMarshalJSONKeepsOrder(t *testing.T) {
	p := NewProperties()
	p.Set("b", "2")
	p.Set("a", "1")

	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"b":"2","a":"1"}` {
		t.Fatalf("unexpected JSON: %s", data)
	}

	var nilBag *Properties
	data, err = nilBag.MarshalJSON()
	if err != nil || string(data) != "{}" {
		t.Fatalf("nil bag must marshal as {}: %s, %v", data, err)
	}
}
