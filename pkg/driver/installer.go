package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer materialises a manifest's dependencies into the cache directory
// and pins the resolved revisions into the lockfile.
type Installer struct {
	manifest *Manifest
	cacheDir string
}

func NewInstaller(manifest *Manifest, cacheDir string) *Installer {
	return &Installer{manifest: manifest, cacheDir: cacheDir}
}

// DepDir returns where a named dependency is checked out.
func (in *Installer) DepDir(name string) string {
	return filepath.Join(in.cacheDir, "deps", name)
}

// Install ensures every declared dependency is present and the lockfile pins
// what was resolved. It reports whether the lockfile changed and returns
// human-readable progress lines for the CLI.
func (in *Installer) Install(lock *Lockfile) (bool, []string, error) {
	names := make([]string, 0, len(in.manifest.Dependencies))
	for name := range in.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	var logs []string
	for _, name := range names {
		spec := in.manifest.Dependencies[name]
		if spec == nil {
			continue
		}
		entry, log, err := in.installOne(name, spec, lock.Find(name))
		if err != nil {
			return changed, logs, fmt.Errorf("dependency %s: %w", name, err)
		}
		logs = append(logs, log)
		if lock.Upsert(entry) {
			changed = true
		}
	}
	return changed, logs, nil
}

func (in *Installer) installOne(name string, spec *DependencySpec, locked *LockedPackage) (*LockedPackage, string, error) {
	if spec.Path != "" {
		dir := spec.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(in.manifest.Path), dir)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, "", fmt.Errorf("path %s is not a directory", dir)
		}
		return &LockedPackage{Name: name, Path: spec.Path},
			fmt.Sprintf("%s: using local path %s", name, dir), nil
	}

	dir := in.DepDir(name)
	if locked != nil && locked.Git == spec.Git && locked.Rev != "" {
		if _, err := os.Stat(dir); err == nil {
			return locked, fmt.Sprintf("%s: cached at %s (%s)", name, dir, shortRev(locked.Rev)), nil
		}
	}

	rev, err := in.fetch(dir, spec)
	if err != nil {
		return nil, "", err
	}
	return &LockedPackage{Name: name, Git: spec.Git, Rev: rev},
		fmt.Sprintf("%s: fetched %s (%s)", name, spec.Git, shortRev(rev)), nil
}

// fetch clones the dependency (or reuses an existing checkout) and returns
// the resolved HEAD revision.
func (in *Installer) fetch(dir string, spec *DependencySpec) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err == git.ErrRepositoryNotExists {
		opts := &git.CloneOptions{URL: spec.Git}
		switch {
		case spec.Tag != "":
			opts.ReferenceName = plumbing.NewTagReferenceName(spec.Tag)
		case spec.Branch != "":
			opts.ReferenceName = plumbing.NewBranchReferenceName(spec.Branch)
		}
		repo, err = git.PlainClone(dir, false, opts)
	}
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", spec.Git, err)
	}

	if spec.Rev != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			return "", err
		}
		hash := plumbing.NewHash(spec.Rev)
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: hash}); err != nil {
			return "", fmt.Errorf("checkout %s: %w", spec.Rev, err)
		}
		return hash.String(), nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func shortRev(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
