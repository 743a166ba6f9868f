package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/pagefile"
	"github.com/vango-dev/loom/pkg/serve"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [page.yaml|dir]...",
		Short: "Check page files for errors",
		Long: `Decode page files and report every file that fails.

Without arguments the configured page directory is checked.

Examples:
  loom validate
  loom validate pages/home.yaml site/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.PagesPath()}
			}
			return a.runValidate(args)
		},
	}
}

func (a *app) runValidate(paths []string) error {
	files, err := pageFiles(paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		if _, err := pagefile.Load(file); err != nil {
			if e, ok := err.(*errors.Error); ok {
				a.errorMsg("%s", e.FormatCompact())
			} else {
				a.errorMsg("%s", err)
			}
			failed++
			continue
		}
		a.info("%s ok", file)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d page files are invalid", failed, len(files))
	}
	a.success("%d page files are valid", len(files))
	return nil
}

// pageFiles expands directories into the page files they contain.
func pageFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), serve.PageExt) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	return files, nil
}
