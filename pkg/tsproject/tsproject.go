// Package tsproject implements the Project Loader (spec §4.1): it locates a
// tsconfig.json (or a caller-supplied path), resolves the project's file
// set, and builds a github.com/microsoft/typescript-go program that every
// parser package walks. It is the TypeScript analog of the teacher's
// pkg/scanner.Scanner, which wraps go/parser + token.FileSet the same way
// this wraps the typescript-go compiler shim.
package tsproject

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/bundled"
	"github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs/cachedvfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
)

// defaultSourceExtensions are the file suffixes walked when no tsconfig.json
// is present and the project falls back to scanning the root directly
// (spec §4.1 "scanning with defaults").
var defaultSourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// skippedDirNames are never descended into when discovering files without a
// tsconfig.json — the same directories tsc itself excludes by default.
var skippedDirNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
}

// Options configures project discovery (spec §4.1 "configuration").
type Options struct {
	// RootDir is the directory to search for a tsconfig.json, and the
	// directory `Include` globs are resolved relative to.
	RootDir string
	// ConfigPath, if set, is used instead of discovering tsconfig.json under
	// RootDir; a relative ConfigPath is resolved against RootDir.
	ConfigPath string
	// Include holds extra glob patterns scanned in addition to whatever
	// tsconfig.json's own "include" resolves to. Empty means "trust
	// tsconfig.json alone".
	Include []string
}

// Project wraps a loaded typescript-go program plus bookkeeping the parser
// packages need: the workspace root (for building repo-relative paths) and
// any non-fatal problems encountered while loading.
type Project struct {
	RootDir  string
	Program  *compiler.Program
	Warnings []string
}

// Load discovers tsconfig.json under opts.RootDir (or uses opts.ConfigPath),
// and builds the full typescript-go program for the project. A missing
// config file is not a fatal error (spec §4.1 "tolerate missing config"):
// Load falls back to a default program built from the root's own source
// files and returns a warning alongside it, rather than refusing to scan.
func Load(ctx context.Context, opts Options) (*Project, error) {
	root := opts.RootDir
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("tsproject: resolve root dir: %w", err)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(absRoot, "tsconfig.json")
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(absRoot, configPath)
	}

	fs := cachedvfs.From(osvfs.FS())
	configHost := &tsoptions.ParseConfigFileHost{
		FS:               fs,
		CurrentDirectory: absRoot,
		NewLine:          "\n",
	}

	var (
		parsedConfig *tsoptions.ParsedCommandLine
		warnings     []string
	)
	if _, statErr := os.Stat(configPath); statErr != nil {
		// No tsconfig.json — fall back to a default program built directly
		// from the root's own .ts/.tsx/.js/.jsx files (spec §4.1: absence of
		// the config file is tolerated, not fatal; the parser still scans,
		// just without the config's include/exclude/compilerOptions).
		warnings = append(warnings, fmt.Sprintf("no tsconfig.json found under %s, scanning with defaults", absRoot))
		fileNames, walkErr := discoverSourceFiles(absRoot)
		if walkErr != nil {
			return nil, fmt.Errorf("tsproject: discover source files under %s: %w", absRoot, walkErr)
		}
		parsedConfig = tsoptions.ParseCommandLine(fileNames, configHost)
		if parsedConfig == nil {
			return nil, fmt.Errorf("tsproject: unable to build a default program under %s", absRoot)
		}
	} else {
		tsConfigPath := tspath.ToPath(configPath, "", fs.UseCaseSensitiveFileNames())
		parsedConfig = tsoptions.GetParsedCommandLineOfConfigFile(tsConfigPath, nil, fs, configHost)
		if parsedConfig == nil {
			return nil, fmt.Errorf("tsproject: unable to parse %s", configPath)
		}
	}

	for _, glob := range opts.Include {
		matches, err := filepath.Glob(filepath.Join(absRoot, glob))
		if err != nil {
			continue // a malformed extra glob is skipped, not fatal (spec §4.1)
		}
		parsedConfig.FileNames = append(parsedConfig.FileNames, matches...)
	}

	host := compiler.NewCompilerHost(&compiler.ProgramOptions{}, absRoot, fs, bundled.LibPath())
	program := compiler.NewProgram(compiler.ProgramOptions{
		Config:           parsedConfig,
		Host:             host,
		JSDocParsingMode: ast.JSDocParsingModeParseAll,
	})

	return &Project{RootDir: absRoot, Program: program, Warnings: warnings}, nil
}

// discoverSourceFiles walks root for TypeScript/JavaScript source files when
// no tsconfig.json exists to declare a file set (spec §4.1). Declaration
// files (.d.ts) are skipped here too — SourceFiles() filters them again from
// the built program, but there is no reason to even hand them to the parser.
func discoverSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // an unreadable entry is skipped, not fatal (spec §4.1)
		}
		if info.IsDir() {
			if path != root && skippedDirNames[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".d.ts") {
			return nil
		}
		for _, ext := range defaultSourceExtensions {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SourceFiles returns the project's non-declaration (.d.ts) source files
// that lie under the workspace root — the set every parser walks (spec
// §4.1: "imports brought in implicitly by the compiler config but lying
// outside the root are excluded from enumeration").
func (p *Project) SourceFiles() []*ast.SourceFile {
	if p == nil || p.Program == nil {
		return nil
	}
	var files []*ast.SourceFile
	for _, sf := range p.Program.GetSourceFiles() {
		if sf.IsDeclarationFile {
			continue
		}
		if !p.underRoot(sf.FileName()) {
			continue
		}
		files = append(files, sf)
	}
	return files
}

// underRoot reports whether path lies at or beneath the project's root
// directory, rejecting files pulled in by imports that resolve outside it.
func (p *Project) underRoot(path string) bool {
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

// RelPath returns path relative to the project's root directory, falling
// back to the absolute path if it cannot be made relative.
func (p *Project) RelPath(path string) string {
	if p == nil {
		return path
	}
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil {
		return path
	}
	return rel
}
