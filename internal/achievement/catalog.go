package achievement

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Category groups achievements for filtering.
type Category string

const (
	CategoryStreak    Category = "streak"
	CategoryWorkout   Category = "workout"
	CategoryMilestone Category = "milestone"
	CategorySpecial   Category = "special"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryStreak, CategoryWorkout, CategoryMilestone, CategorySpecial:
		return true
	}
	return false
}

// Definition is one immutable catalog entry.
type Definition struct {
	ID          string   `toml:"id"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Category    Category `toml:"category"`
	Metric      string   `toml:"metric"`
	Threshold   int      `toml:"threshold"`
}

// Catalog is the ordered set of achievements shown to the user.
type Catalog struct {
	Definitions []Definition `toml:"achievement"`
}

//go:embed catalog.toml
var defaultCatalog string

// DefaultCatalog returns the built-in achievements.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in achievement catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a TOML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read achievement catalog: %w", err)
	}
	c, err := ParseCatalog(string(data))
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates TOML catalog text.
func ParseCatalog(data string) (Catalog, error) {
	var c Catalog
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Catalog{}, fmt.Errorf("unknown catalog key %q", undecoded[0].String())
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks structural rules. Metrics are resolved at evaluation time so
// one bad entry never hides the rest of the catalog.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Definitions))
	for i, d := range c.Definitions {
		if d.ID == "" {
			return fmt.Errorf("achievement %d: id is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("achievement %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
		if d.Title == "" {
			return fmt.Errorf("achievement %q: title is required", d.ID)
		}
		if !d.Category.Valid() {
			return fmt.Errorf("achievement %q: unknown category %q", d.ID, d.Category)
		}
		if d.Threshold < 1 {
			return fmt.Errorf("achievement %q: threshold must be at least 1", d.ID)
		}
	}
	return nil
}

// Lookup finds a definition by ID.
func (c Catalog) Lookup(id string) (Definition, bool) {
	for _, d := range c.Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// ByCategory returns the definitions in category, in catalog order.
func (c Catalog) ByCategory(cat Category) []Definition {
	var out []Definition
	for _, d := range c.Definitions {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}
