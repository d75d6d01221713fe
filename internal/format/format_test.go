package format

import (
	"bytes"
	"testing"
)

type sample struct {
	SampleID *string  `json:"sample_id"`
	Species  []string `json:"species_detected"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONFormatter{}).Write(&buf, sample{Species: []string{"Cod"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\n  \"sample_id\": null,\n  \"species_detected\": [\n    \"Cod\"\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected json:\n%s", buf.String())
	}
}

func TestYAMLFormatterUsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAMLFormatter{}).Write(&buf, sample{Species: []string{"Cod", "Tuna"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "sample_id: null\nspecies_detected:\n  - Cod\n  - Tuna\n"
	if buf.String() != want {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		want    Formatter
		wantErr bool
	}{
		{name: "json", want: JSONFormatter{}},
		{name: " YAML ", want: YAMLFormatter{}},
		{name: "yml", want: YAMLFormatter{}},
		{name: "csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("for name: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %T, got %T", tt.want, got)
			}
		})
	}
}
