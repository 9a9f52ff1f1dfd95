package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"semant/internal/core/app/helpers"
	"semant/internal/core/errors"
	"semant/internal/shared/observability"
)

// ScanInputs returns the AST documents under roots, sorted. A root naming a
// file is taken as is; directories are walked and their files matched by
// base name against include, skipping excluded directories and files.
func ScanInputs(roots, include, excludeDirs, excludeFiles []string) ([]string, error) {
	includeGlobs, err := helpers.CompileGlobs(include, "include")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile input patterns")
	}
	dirGlobs, err := helpers.CompileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile input patterns")
	}
	fileGlobs, err := helpers.CompileGlobs(excludeFiles, "exclude file")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "compile input patterns")
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range helpers.UniqueScanRoots(roots) {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "input root not found"), errors.CtxPath, root)
			}
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "stat input root"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && helpers.MatchAny(dirGlobs, base) {
					return filepath.SkipDir
				}
				return nil
			}
			if helpers.MatchAny(fileGlobs, base) {
				return nil
			}
			if len(includeGlobs) > 0 && !helpers.MatchAny(includeGlobs, base) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "scan input root"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	observability.InputFiles.Set(float64(len(files)))
	return files, nil
}
