package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srinathmkce/imagetoken/pkg/dimensions"
)

// source is one image to estimate, expanded from a request input.
type source struct {
	id   string
	kind string
}

// collect expands inputs into the images they name. Directories are walked
// for files with an allowed extension; files named directly are kept as-is
// and have their extension checked when read. Nothing is decoded here.
func collect(inputs []string, extensions []string, recursive bool) ([]source, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs given", ErrInvalidInput)
	}

	var sources []source
	for _, input := range inputs {
		input = strings.TrimSpace(input)

		switch {
		case dimensions.IsURL(input):
			sources = append(sources, source{id: input, kind: dimensions.SourceURL})
			continue
		case dimensions.IsDataURL(input):
			sources = append(sources, source{id: input, kind: dimensions.SourceDataURL})
			continue
		}

		path := strings.TrimPrefix(input, "file://")
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInput, input)
		}

		if !info.IsDir() {
			sources = append(sources, source{id: path, kind: dimensions.SourceFile})
			continue
		}

		files, err := listImages(path, extensions, recursive)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", path, err)
		}
		for _, f := range files {
			sources = append(sources, source{id: f, kind: dimensions.SourceFile})
		}
	}
	return sources, nil
}

// listImages returns the image files under dir in lexical order.
func listImages(dir string, extensions []string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if dimensions.IsAllowedExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
