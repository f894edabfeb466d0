package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockFileName sits next to program.yml and pins resolved dependencies.
const LockFileName = "program.lock"

// Lockfile records the exact revisions deps install resolved.
type Lockfile struct {
	Path     string           `yaml:"-"`
	Root     string           `yaml:"root"`
	Tool     string           `yaml:"tool"`
	Packages []*LockedPackage `yaml:"packages"`
}

// LockedPackage pins one dependency to a revision.
type LockedPackage struct {
	Name string `yaml:"name"`
	Git  string `yaml:"git,omitempty"`
	Path string `yaml:"path,omitempty"`
	Rev  string `yaml:"rev,omitempty"`
}

// NewLockfile creates an empty lockfile for the given root package.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{Root: root, Tool: tool}
}

// LoadLockfile reads program.lock; a missing file surfaces os.ErrNotExist so
// callers can create one.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	lock.Path = path
	return &lock, nil
}

// WriteLockfile writes the lockfile with packages in stable name order.
func WriteLockfile(lock *Lockfile, path string) error {
	sort.Slice(lock.Packages, func(i, j int) bool {
		return lock.Packages[i].Name < lock.Packages[j].Name
	})
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	lock.Path = path
	return nil
}

// Find returns the locked entry for a dependency name, if present.
func (l *Lockfile) Find(name string) *LockedPackage {
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Upsert replaces or appends an entry, reporting whether anything changed.
func (l *Lockfile) Upsert(entry *LockedPackage) bool {
	for idx, pkg := range l.Packages {
		if pkg == nil || pkg.Name != entry.Name {
			continue
		}
		if pkg.Git == entry.Git && pkg.Path == entry.Path && pkg.Rev == entry.Rev {
			return false
		}
		l.Packages[idx] = entry
		return true
	}
	l.Packages = append(l.Packages, entry)
	return true
}
