package cmd

import (
	"testing"
	"time"

	"github.com/pathwell/labscan/pkg/catalog"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("LABSCAN_TEST_STR", "vision")
	if got := envOr("LABSCAN_TEST_STR", "tesseract"); got != "vision" {
		t.Errorf("envOr() = %q, want vision", got)
	}
	if got := envOr("LABSCAN_TEST_STR_UNSET", "tesseract"); got != "tesseract" {
		t.Errorf("envOr() fallback = %q, want tesseract", got)
	}
}

func TestEnvFloatOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{name: "set", value: "0.9", want: 0.9},
		{name: "unset", value: "", want: 0.4},
		{name: "garbage", value: "high", want: 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LABSCAN_TEST_FLOAT", tt.value)
			if got := envFloatOr("LABSCAN_TEST_FLOAT", 0.4); got != tt.want {
				t.Errorf("envFloatOr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvDurationOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "set", value: "45s", want: 45 * time.Second},
		{name: "unset", value: "", want: 30 * time.Second},
		{name: "garbage", value: "soon", want: 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LABSCAN_TEST_DURATION", tt.value)
			if got := envDurationOr("LABSCAN_TEST_DURATION", 30*time.Second); got != tt.want {
				t.Errorf("envDurationOr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribeRange(t *testing.T) {
	entries := []catalog.Entry{
		{Name: "Hemoglobin", Range: &catalog.Range{Low: "12.0", High: "15.0"}},
		{Name: "ESR", Range: &catalog.Range{High: "20"}},
		{Name: "Reticulocytes", Range: &catalog.Range{Low: "0.5"}},
		{Name: "Widal", Qualitative: true, Negative: []string{"NEGATIVE", "NON-REACTIVE"}},
		{Name: "Notes"},
	}
	cat, err := catalog.New(entries)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	want := map[string]string{
		"Hemoglobin":    "12 - 15",
		"ESR":           "< 20",
		"Reticulocytes": "> 0.5",
		"Widal":         "qualitative (normal: NEGATIVE/NON-REACTIVE)",
		"Notes":         "-",
	}
	for _, entry := range cat.Entries() {
		if got := describeRange(entry); got != want[entry.Name] {
			t.Errorf("describeRange(%s) = %q, want %q", entry.Name, got, want[entry.Name])
		}
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatalf("loadCatalog(\"\") error: %v", err)
	}
	if cat.Len() == 0 {
		t.Error("empty path must yield the built-in catalog")
	}
}
