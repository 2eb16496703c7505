package app

import (
	"fmt"
	"idiomlint/internal/shared/util"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
)

// ScanDirectories lists the supported source files under paths. A path may
// name a single file. Directory patterns match a directory's base name. File
// patterns match the base name, or the slash path when they contain a
// separator. The result is sorted and free of duplicates.
func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs, err := compileGlobs("dir", excludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs("file", excludeFiles)
	if err != nil {
		return nil, err
	}

	excludedFile := func(path string) bool {
		base := filepath.Base(path)
		slashPath := util.SlashPath(a.displayPath(path))
		for i, g := range fileGlobs {
			target := base
			if util.HasSeparator(excludeFiles[i]) {
				target = slashPath
			}
			if g.Match(target) {
				return true
			}
		}
		return false
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if a.codeParser.IsSupportedPath(root) && !excludedFile(root) {
				files = append(files, filepath.Clean(root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				base := filepath.Base(path)
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !a.codeParser.IsSupportedPath(path) || excludedFile(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func compileGlobs(kind string, patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude %s pattern %q: %w", kind, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
