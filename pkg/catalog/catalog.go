// Package catalog holds the reference data the pipeline matches report
// lines against: canonical test names, accepted aliases, default units,
// and default reference ranges. The catalog is loaded once and read-only
// afterwards, so it is safe for unsynchronized concurrent reads.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	yaml "go.yaml.in/yaml/v3"
)

// Range is a default reference range for an entry, applied when the report
// line itself carries no parsable range. Bounds are decimal strings in the
// YAML file; either may be absent for open-ended ranges.
type Range struct {
	Low  string `yaml:"low,omitempty"`
	High string `yaml:"high,omitempty"`
}

// Entry describes one known lab test.
type Entry struct {
	// Name is the canonical name used in output regardless of which
	// alias matched.
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
	Unit    string   `yaml:"unit,omitempty"`
	Range   *Range   `yaml:"range,omitempty"`

	// Qualitative marks tests whose result is a word rather than a number
	// (e.g. WIDAL: NEGATIVE). Negative lists the tokens counted as a
	// normal finding for such tests.
	Qualitative bool     `yaml:"qualitative,omitempty"`
	Negative    []string `yaml:"negative,omitempty"`

	rangeLow  *decimal.Decimal
	rangeHigh *decimal.Decimal
}

// Names returns the canonical name followed by all aliases.
func (e *Entry) Names() []string {
	return append([]string{e.Name}, e.Aliases...)
}

// DefaultRange returns the entry's default reference bounds, either of
// which may be nil.
func (e *Entry) DefaultRange() (low, high *decimal.Decimal) {
	return e.rangeLow, e.rangeHigh
}

// IsNegative reports whether a qualitative token counts as a normal finding
// for this entry.
func (e *Entry) IsNegative(token string) bool {
	for _, n := range e.Negative {
		if strings.EqualFold(n, token) {
			return true
		}
	}
	return false
}

type file struct {
	Version int     `yaml:"version"`
	Tests   []Entry `yaml:"tests"`
}

// Catalog is the validated, in-memory form of the test-catalog data file.
type Catalog struct {
	entries []Entry
}

// Entries returns the catalog's entries in file order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// New builds a catalog from entries, validating them. Used by tests and by
// the built-in default catalog; file loading goes through Load.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{entries: entries}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and validates a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(f.Tests) == 0 {
		return nil, fmt.Errorf("catalog %s declares no tests", path)
	}

	c, err := New(f.Tests)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.entries))
	for i := range c.entries {
		e := &c.entries[i]
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("entry %d has an empty name", i)
		}
		key := strings.ToUpper(strings.TrimSpace(e.Name))
		if seen[key] {
			return fmt.Errorf("duplicate canonical name %q", e.Name)
		}
		seen[key] = true

		for _, alias := range e.Aliases {
			if strings.TrimSpace(alias) == "" {
				return fmt.Errorf("entry %q has an empty alias", e.Name)
			}
		}

		if e.Range != nil {
			low, high, err := parseRange(e.Range)
			if err != nil {
				return fmt.Errorf("entry %q: %w", e.Name, err)
			}
			e.rangeLow, e.rangeHigh = low, high
		}

		if !e.Qualitative && len(e.Negative) > 0 {
			return fmt.Errorf("entry %q lists negative tokens but is not qualitative", e.Name)
		}
	}
	return nil
}

func parseRange(r *Range) (low, high *decimal.Decimal, err error) {
	if r.Low == "" && r.High == "" {
		return nil, nil, fmt.Errorf("range declares no bounds")
	}
	if r.Low != "" {
		d, err := decimal.NewFromString(r.Low)
		if err != nil {
			return nil, nil, fmt.Errorf("range low %q: %w", r.Low, err)
		}
		low = &d
	}
	if r.High != "" {
		d, err := decimal.NewFromString(r.High)
		if err != nil {
			return nil, nil, fmt.Errorf("range high %q: %w", r.High, err)
		}
		high = &d
	}
	if low != nil && high != nil && low.GreaterThan(*high) {
		return nil, nil, fmt.Errorf("range low %s exceeds high %s", r.Low, r.High)
	}
	return low, high, nil
}
