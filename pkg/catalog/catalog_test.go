package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeCatalog(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `
version: 1
tests:
  - name: Hemoglobin
    aliases: [HB, HGB]
    unit: g/dL
    range:
      low: "12.0"
      high: "15.0"
  - name: ESR
    unit: mm/hr
    range:
      high: "20"
  - name: Widal
    aliases: [WIDAL TEST]
    qualitative: true
    negative: [NEGATIVE, NON-REACTIVE]
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	hb := c.Entries()[0]
	if got := hb.Names(); len(got) != 3 || got[0] != "Hemoglobin" {
		t.Errorf("Names() = %v, want canonical name first plus aliases", got)
	}
	low, high := hb.DefaultRange()
	if low == nil || high == nil ||
		!low.Equal(decimal.RequireFromString("12.0")) ||
		!high.Equal(decimal.RequireFromString("15.0")) {
		t.Errorf("DefaultRange() = %v, %v, want 12.0 and 15.0", low, high)
	}

	esr := c.Entries()[1]
	low, high = esr.DefaultRange()
	if low != nil || high == nil || !high.Equal(decimal.RequireFromString("20")) {
		t.Errorf("open-ended range parsed as %v, %v", low, high)
	}

	widal := c.Entries()[2]
	if !widal.IsNegative("negative") {
		t.Error("IsNegative must match case-insensitively")
	}
	if widal.IsNegative("POSITIVE") {
		t.Error("IsNegative accepted a token outside the negative list")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing catalog file")
	}
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{{",
			wantErr: "parsing catalog",
		},
		{
			name:    "no tests",
			yaml:    "version: 1\ntests: []\n",
			wantErr: "declares no tests",
		},
		{
			name: "duplicate name",
			yaml: `
tests:
  - name: Hemoglobin
  - name: HEMOGLOBIN
`,
			wantErr: "duplicate canonical name",
		},
		{
			name: "empty alias",
			yaml: `
tests:
  - name: Hemoglobin
    aliases: ["HB", ""]
`,
			wantErr: "empty alias",
		},
		{
			name: "inverted range",
			yaml: `
tests:
  - name: Hemoglobin
    range:
      low: "15.0"
      high: "12.0"
`,
			wantErr: "exceeds high",
		},
		{
			name: "empty range",
			yaml: `
tests:
  - name: Hemoglobin
    range: {}
`,
			wantErr: "no bounds",
		},
		{
			name: "bad bound",
			yaml: `
tests:
  - name: Hemoglobin
    range:
      low: "twelve"
`,
			wantErr: "range low",
		},
		{
			name: "negative tokens on quantitative entry",
			yaml: `
tests:
  - name: Hemoglobin
    negative: [NEGATIVE]
`,
			wantErr: "not qualitative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	if _, err := New([]Entry{{Name: "  "}}); err == nil {
		t.Fatal("expected an error for a blank name")
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("built-in catalog is empty")
	}

	var foundHB, foundQual bool
	for _, e := range c.Entries() {
		if e.Name == "Hemoglobin" {
			foundHB = true
			low, high := e.DefaultRange()
			if low == nil || high == nil {
				t.Error("Hemoglobin must carry a two-sided default range")
			}
		}
		if e.Qualitative {
			foundQual = true
			if len(e.Negative) == 0 {
				t.Errorf("qualitative entry %q has no negative tokens", e.Name)
			}
		}
	}
	if !foundHB {
		t.Error("built-in catalog is missing Hemoglobin")
	}
	if !foundQual {
		t.Error("built-in catalog has no qualitative entries")
	}
}
