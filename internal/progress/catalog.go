package progress

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed achievements.yaml
var defaultCatalogYAML []byte

// Definition describes one achievement.
type Definition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Predicate   Predicate `json:"-"`
}

// Catalog is an ordered, immutable set of achievement definitions.
// It is safe for concurrent reads.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

type catalogFile struct {
	Achievements []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
		Condition   string `yaml:"condition"`
	} `yaml:"achievements"`
}

// NewCatalog builds a catalog from definitions, keeping their order.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, fmt.Errorf("achievement without id")
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate achievement id %q", d.ID)
		}
		c.index[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// LoadCatalog parses a YAML catalog. Entries whose condition is not a known
// predicate are left out of the catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode achievement catalog: %w", err)
	}

	defs := make([]Definition, 0, len(f.Achievements))
	for _, a := range f.Achievements {
		p, ok := ParsePredicate(a.Condition)
		if !ok {
			log.Printf("achievements: skipping %q, unknown condition %q", a.ID, a.Condition)
			continue
		}
		defs = append(defs, Definition{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Icon:        a.Icon,
			Predicate:   p,
		})
	}
	return NewCatalog(defs)
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog, parsed on first use.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
		if err != nil {
			panic(fmt.Sprintf("built-in achievement catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Lookup finds a definition by id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) Len() int { return len(c.defs) }
