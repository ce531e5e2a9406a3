package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

//go:embed catalog.json
var defaultCatalogJSON []byte

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

// ErrUnsupportedVersion is returned when a catalog declares a format version
// this build cannot read.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// Catalog is the full set of stories and exercises available to a learner.
type Catalog struct {
	Version   string     `json:"version"`
	Stories   []Item     `json:"stories"`
	Exercises []Exercise `json:"exercises"`
}

// Story returns the story with the given id.
func (c *Catalog) Story(id string) (Item, bool) {
	for _, s := range c.Stories {
		if s.ID == id {
			return s, true
		}
	}
	return Item{}, false
}

// Exercise returns the exercise with the given id.
func (c *Catalog) Exercise(id string) (Exercise, bool) {
	for _, e := range c.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

// StoriesFor resolves the stories referenced by an exercise, in reference order.
func (c *Catalog) StoriesFor(ex Exercise) []Item {
	out := make([]Item, 0, len(ex.Stories))
	for _, id := range ex.Stories {
		if s, ok := c.Story(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogJSON))
}

// LoadCatalogFile reads and validates a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog reads a catalog document, validates it against the catalog
// schema and checks that references between exercises and stories resolve.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	schema, err := compiledCatalogSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("catalog schema validation failed: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := checkVersion(cat.Version); err != nil {
		return nil, err
	}
	if err := validateReferences(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: major version %s, want %s", ErrUnsupportedVersion, major, SupportedMajor)
	}
	return nil
}

func validateReferences(cat *Catalog) error {
	var errs []string

	storyIDs := make(map[string]bool, len(cat.Stories))
	for _, s := range cat.Stories {
		if storyIDs[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate story ID: %q", s.ID))
		}
		storyIDs[s.ID] = true
	}

	exerciseIDs := make(map[string]bool, len(cat.Exercises))
	for _, e := range cat.Exercises {
		if exerciseIDs[e.ID] {
			errs = append(errs, fmt.Sprintf("duplicate exercise ID: %q", e.ID))
		}
		exerciseIDs[e.ID] = true
		for _, sid := range e.Stories {
			if !storyIDs[sid] {
				errs = append(errs, fmt.Sprintf("exercise %q references nonexistent story %q", e.ID, sid))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaJSON))
		if err != nil {
			catalogSchemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://storypoints/catalog.json"
		if err := c.AddResource(url, def); err != nil {
			catalogSchemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		catalogSchema, catalogSchemaErr = c.Compile(url)
		if catalogSchemaErr != nil {
			catalogSchemaErr = fmt.Errorf("compile catalog schema: %w", catalogSchemaErr)
		}
	})
	return catalogSchema, catalogSchemaErr
}
