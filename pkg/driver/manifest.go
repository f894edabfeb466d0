package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest looked up next to OBJ sources.
const ManifestFileName = "program.yml"

// Manifest represents the parsed contents of program.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Authors      []string
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Dependencies map[string]*DependencySpec
}

// TargetSpec describes a runnable target from the manifest.
type TargetSpec struct {
	Name string
	Type TargetType
	Main string
}

// TargetType enumerates supported target kinds.
type TargetType string

const (
	TargetTypeExecutable TargetType = "executable"
	TargetTypeLibrary    TargetType = "library"
)

// IsValid reports whether the target type is recognised.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeExecutable, TargetTypeLibrary:
		return true
	default:
		return false
	}
}

// DependencySpec describes a dependency descriptor in the manifest. Either a
// git source or a local path must be given.
type DependencySpec struct {
	Git    string `yaml:"git,omitempty"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"`
}

func (d *DependencySpec) validate() []string {
	var issues []string
	if d.Git == "" && d.Path == "" {
		issues = append(issues, "either git or path must be provided")
	}
	if d.Git != "" && d.Path != "" {
		issues = append(issues, "git and path are mutually exclusive")
	}
	pinned := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pinned++
		}
	}
	if pinned > 1 {
		issues = append(issues, "rev, tag, and branch are mutually exclusive")
	}
	if d.Path != "" && pinned > 0 {
		issues = append(issues, "path dependencies cannot be pinned")
	}
	return issues
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Authors      []string                   `yaml:"authors"`
	Targets      yaml.Node                  `yaml:"targets"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

type targetFile struct {
	Type TargetType `yaml:"type"`
	Main string     `yaml:"main"`
}

// LoadManifest parses program.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest, err := raw.toManifest(absPath)
	if err != nil {
		return nil, err
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (f *manifestFile) toManifest(path string) (*Manifest, error) {
	m := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(f.Name),
		Version:      strings.TrimSpace(f.Version),
		Authors:      f.Authors,
		Targets:      make(map[string]*TargetSpec),
		Dependencies: f.Dependencies,
	}
	if m.Dependencies == nil {
		m.Dependencies = make(map[string]*DependencySpec)
	}

	// Targets decode through yaml.Node so manifest order is kept; a plain
	// map would lose it.
	if f.Targets.Kind != 0 {
		if f.Targets.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("manifest: targets must be a mapping")
		}
		for idx := 0; idx+1 < len(f.Targets.Content); idx += 2 {
			keyNode := f.Targets.Content[idx]
			valNode := f.Targets.Content[idx+1]
			var tf targetFile
			if err := valNode.Decode(&tf); err != nil {
				return nil, fmt.Errorf("manifest: target %q: %w", keyNode.Value, err)
			}
			name := strings.TrimSpace(keyNode.Value)
			m.Targets[name] = &TargetSpec{Name: name, Type: tf.Type, Main: tf.Main}
			m.TargetOrder = append(m.TargetOrder, name)
		}
	}
	return m, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if name == "" {
			errs.Issues = append(errs.Issues, "targets must not use empty keys")
			continue
		}
		if target.Type == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q missing type", name))
		} else if !target.Type.IsValid() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q has unsupported type %q", name, target.Type))
		}
		if target.Type == TargetTypeExecutable && target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", name))
		}
	}
	depNames := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		depNames = append(depNames, name)
	}
	sort.Strings(depNames)
	for _, name := range depNames {
		dep := m.Dependencies[name]
		if dep == nil {
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoExecutableTarget = errors.New("manifest: no executable targets defined")

// DefaultExecutableTarget returns the first executable target in manifest
// order.
func (m *Manifest) DefaultExecutableTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoExecutableTarget
	}
	for _, name := range m.TargetOrder {
		if target := m.Targets[name]; target != nil && target.Type == TargetTypeExecutable {
			return target, nil
		}
	}
	return nil, ErrNoExecutableTarget
}

// FindManifest walks upward from start looking for program.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found above %s", ManifestFileName, start)
		}
		dir = parent
	}
}
