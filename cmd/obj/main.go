package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"obj/interpreter-go/pkg/driver"
	"obj/interpreter-go/pkg/interpreter"
	"obj/interpreter-go/pkg/parser"
)

const cliToolVersion = "obj-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "repl":
		return runRepl()
	case "deps":
		return runDeps(args[1:])
	case "run":
		return runEntry(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
usage: obj <command> [arguments]

  run [file.obj]   run a program file, or the manifest's main target
  repl             start an interactive session
  deps install     fetch dependencies declared in program.yml
  deps update      refresh dependencies and rewrite program.lock
  version          print the tool version
`))
}

func runEntry(args []string) int {
	if len(args) == 0 {
		manifestPath, err := driver.FindManifest(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "no program file given and %v\n", err)
			return 1
		}
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
			return 1
		}
		target, err := manifest.DefaultExecutableTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		entry := filepath.Join(filepath.Dir(manifestPath), target.Main)
		return runFile(entry)
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "run takes at most one program file (received %s)\n", strings.Join(args, " "))
		return 1
	}
	return runFile(args[0])
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	program, err := parser.Parse(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}
	interp := interpreter.New()
	if _, err := interp.EvaluateProgram(program); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return 1
	}
	return 0
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "obj deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		return runDepsInstall(false)
	case "update":
		return runDepsInstall(true)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func runDepsInstall(refresh bool) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}
	cacheDir, err := resolveObjHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve OBJ_HOME: %v\n", err)
		return 1
	}

	lockPath := filepath.Join(filepath.Dir(manifest.Path), driver.LockFileName)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	if refresh {
		lock.Packages = nil
	}

	installer := driver.NewInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to install dependencies: %v\n", err)
		return 1
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockFileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockFileName, lockPath)
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func resolveObjHome() (string, error) {
	if dir := os.Getenv("OBJ_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".obj"), nil
}
