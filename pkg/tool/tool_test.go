package tool

import (
	"encoding/json"
	"testing"
)

func TestCatalogOrderAndUniqueness(t *testing.T) {
	want := []string{
		"read_file",
		"write_file",
		"list_directory",
		"create_directory",
		"delete_file",
		"file_info",
	}
	got := Catalog()
	if len(got) != len(want) {
		t.Fatalf("catalog size=%d want %d", len(got), len(want))
	}
	seen := map[string]bool{}
	for i, d := range got {
		if d.Name != want[i] {
			t.Fatalf("catalog[%d]=%s want %s", i, d.Name, want[i])
		}
		if seen[d.Name] {
			t.Fatalf("duplicate tool %s", d.Name)
		}
		seen[d.Name] = true
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Name = "mutated"
	if Catalog()[0].Name != "read_file" {
		t.Fatal("catalog must be immutable")
	}
}

func TestKindForName(t *testing.T) {
	for _, d := range Catalog() {
		k, ok := KindForName(d.Name)
		if !ok || k != d.Kind {
			t.Fatalf("KindForName(%s)=%v,%v", d.Name, k, ok)
		}
	}
	if _, ok := KindForName("unknown_tool_xyz"); ok {
		t.Fatal("unexpected kind for unknown name")
	}
}

func TestInputSchemasDeclareRequiredStrings(t *testing.T) {
	for _, d := range Catalog() {
		b, err := json.Marshal(d.InputSchema)
		if err != nil {
			t.Fatalf("schema for %s does not marshal: %v", d.Name, err)
		}
		var doc struct {
			Type       string                       `json:"type"`
			Properties map[string]map[string]string `json:"properties"`
			Required   []string                     `json:"required"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			t.Fatalf("schema for %s: %v", d.Name, err)
		}
		if doc.Type != "object" {
			t.Fatalf("schema for %s has type %q", d.Name, doc.Type)
		}
		if len(doc.Required) == 0 {
			t.Fatalf("schema for %s requires nothing", d.Name)
		}
		for _, req := range doc.Required {
			p, ok := doc.Properties[req]
			if !ok {
				t.Fatalf("schema for %s requires undeclared %q", d.Name, req)
			}
			if p["type"] != "string" {
				t.Fatalf("schema for %s: %q has type %q", d.Name, req, p["type"])
			}
		}
	}
	wf := Catalog()[1]
	if len(wf.InputSchema.Required) != 2 || wf.InputSchema.Required[0] != "path" || wf.InputSchema.Required[1] != "content" {
		t.Fatalf("write_file required=%v", wf.InputSchema.Required)
	}
}
