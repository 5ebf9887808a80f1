package taxonomy

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Structure{
		"solvents": {"alcohols", "ketones"},
		"acids":    {"mineral"},
		"bases":    {},
	}

	out := Decode(Encode(in))

	if len(out) != len(in) {
		t.Fatalf("categories: got %d, want %d", len(out), len(in))
	}
	for cat, subs := range in {
		got := append([]string(nil), out[cat]...)
		want := append([]string(nil), subs...)
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Errorf("%s: got %v, want %v", cat, got, want)
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%s: got %v, want %v", cat, got, want)
				break
			}
		}
	}
}

func TestEncodeIsVersioned(t *testing.T) {
	raw := Encode(Structure{"acids": {"strong"}})

	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("encoded structure is not valid JSON: %v", err)
	}
	if _, ok := env["version"]; !ok {
		t.Error("encoded structure is missing the version tag")
	}
	if _, ok := env["categories"]; !ok {
		t.Error("encoded structure is missing the categories object")
	}
}

func TestDecodeLegacyBareMap(t *testing.T) {
	// Structures written before the versioned envelope are bare objects.
	out := Decode(`{"acids":["strong","weak"],"solvents":[]}`)

	if len(out) != 2 {
		t.Fatalf("categories: got %d, want 2", len(out))
	}
	if len(out["acids"]) != 2 {
		t.Errorf("acids subs: got %v", out["acids"])
	}
}

func TestDecodeResilience(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not json", "not valid json"},
		{"wrong shape", `{"version":"one","categories":42}`},
		{"array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Decode(tt.raw)
			if out == nil {
				t.Fatal("Decode must never return nil")
			}
			if len(out) != 0 {
				t.Errorf("got %v, want empty structure", out)
			}
		})
	}
}

func TestDecodeNormalizesNames(t *testing.T) {
	out := Decode(`{"Acids":[" Strong ","strong","STRONG"],"":["x"]}`)

	if len(out) != 1 {
		t.Fatalf("categories: got %v", out)
	}
	subs := out["acids"]
	if len(subs) != 1 || subs[0] != "strong" {
		t.Errorf("acids subs: got %v, want [strong]", subs)
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("  Mineral Acids ") != "mineral acids" {
		t.Errorf("got %q", Normalize("  Mineral Acids "))
	}
}
