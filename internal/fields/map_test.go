package fields

import (
	"encoding/json"
	"testing"
)

func TestMap_SetGet(t *testing.T) {
	m := New()
	m.Set("Quantities", []string{"50 pieces"})
	m.Set("  Materials ", []string{"304 stainless steel"})

	if _, ok := m.Get("quantities"); !ok {
		t.Error("Get(quantities) missing after Set(Quantities)")
	}
	if _, ok := m.Get("MATERIALS"); !ok {
		t.Error("keys should be case-normalized on lookup")
	}

	got := m.Keys()
	want := []string{"quantities", "materials"}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	if m.Keys()[0] != "a" {
		t.Errorf("overwrite moved key: Keys() = %v", m.Keys())
	}
	v, _ := m.Get("a")
	if v != 3 {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestMap_MarshalJSONOrder(t *testing.T) {
	m := New()
	m.Set("priority", "High")
	m.Set("department", "Stainless Steel Sales")
	m.Set("urgency", "Critical")

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"priority":"High","department":"Stainless Steel Sales","urgency":"Critical"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestMap_UnmarshalJSONOrder(t *testing.T) {
	var m Map
	if err := json.Unmarshal([]byte(`{"b":1,"a":2}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want [b a]", keys)
	}
}

func TestMap_Clone(t *testing.T) {
	m := New()
	nested := New()
	nested.Set("email", "a@b.com")
	m.Set("contact_info", nested)
	m.Set("quantities", []string{"50 pieces"})

	c := m.Clone()
	nested.Set("phone", "555-123-4567")
	if cn, _ := c.Get("contact_info"); cn.(*Map).Len() != 1 {
		t.Error("Clone() shares nested map with original")
	}
}
