// =============================================================================
// CSV to OFX/QIF Converter - Mapping Registry
// =============================================================================
//
// The registry holds the named mapping specifications available to a run:
// the built-in table plus any YAML files loaded from the mappings directory.
// It is an explicit object handed to the CLI and pipeline, not ambient
// process-wide state.
//
// =============================================================================

package mapping

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Registry is a lookup of mapping specifications by name.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry returns a registry seeded with the built-in mappings.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]*Spec)}
	for i := range builtinSpecs {
		r.specs[builtinSpecs[i].Name] = &builtinSpecs[i]
	}
	return r
}

// Register adds or replaces a mapping. YAML-loaded mappings may shadow
// built-ins of the same name.
func (r *Registry) Register(spec *Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("mapping declares no name")
	}
	r.specs[spec.Name] = spec
	return nil
}

// Get returns the mapping with the given name.
func (r *Registry) Get(name string) (*Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns all registered mapping names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir loads every *.yaml / *.yml mapping file in dir into the registry.
// A missing directory is not an error; an unparseable file is.
func (r *Registry) LoadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list mapping files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to list mapping files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		spec, err := LoadFile(file)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		if err := r.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", file, err)
		}
	}
	return nil
}

// Match returns the first mapping (in sorted name order, for determinism)
// whose file_patterns match the given input file name, or nil when none
// matches.
func (r *Registry) Match(filename string) *Spec {
	base := filepath.Base(filename)
	for _, name := range r.Names() {
		spec := r.specs[name]
		for _, pattern := range spec.FilePatterns {
			if ok, err := filepath.Match(pattern, base); err == nil && ok {
				return spec
			}
		}
	}
	return nil
}
