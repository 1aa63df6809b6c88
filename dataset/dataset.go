package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsphweid/melodex/model"
)

// IterMaestro lists every MIDI file of a MAESTRO checkout: root/maestro
// holds one directory per year, each with the performance files. Paths come
// back absolute and sorted.
func IterMaestro(root string) ([]string, error) {
	maestroRoot := filepath.Join(root, "maestro")
	if err := requireDir(maestroRoot); err != nil {
		return nil, err
	}

	yearDirs, err := filepath.Glob(filepath.Join(maestroRoot, "20??"))
	if err != nil {
		return nil, errors.Wrapf(model.ErrInternal, "globbing %v: %v", maestroRoot, err)
	}
	sort.Strings(yearDirs)

	var res []string
	for _, yearDir := range yearDirs {
		if info, err := os.Stat(yearDir); err != nil || !info.IsDir() {
			continue
		}
		paths, err := midiPathsIn(yearDir)
		if err != nil {
			return nil, err
		}
		res = append(res, paths...)
	}
	return res, nil
}

// IterPOP909 lists the one MIDI file of every song directory under
// root/POP909.
func IterPOP909(root string) ([]string, error) {
	base := filepath.Join(root, "POP909")
	if err := requireDir(base); err != nil {
		return nil, err
	}

	songDirs, err := os.ReadDir(base)
	if err != nil {
		return nil, errors.Wrapf(model.ErrInternal, "reading %v: %v", base, err)
	}

	var res []string
	for _, entry := range songDirs {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		songDir := filepath.Join(base, entry.Name())
		paths, err := midiPathsIn(songDir)
		if err != nil {
			return nil, err
		}
		if len(paths) != 1 {
			return nil, errors.Wrapf(model.ErrNotFound,
				"expected exactly 1 MIDI file in %v, found %v", songDir, len(paths))
		}
		res = append(res, paths[0])
	}
	return res, nil
}

// GatherAllMidiPaths walks path recursively and returns every .mid/.midi
// file, up to maxNum of them (0 means no limit).
func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	if err := requireDir(path); err != nil {
		return nil, err
	}

	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(model.ErrInternal, "walking %v: %v", s, err)
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(s, ".mid") || strings.HasSuffix(s, ".midi") {
			if maxNum == 0 || len(res) < maxNum {
				abs, err := filepath.Abs(s)
				if err != nil {
					abs = s
				}
				res = append(res, abs)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

func midiPathsIn(dir string) ([]string, error) {
	mids, err := filepath.Glob(filepath.Join(dir, "*.mid"))
	if err != nil {
		return nil, errors.Wrapf(model.ErrInternal, "globbing %v: %v", dir, err)
	}
	midis, err := filepath.Glob(filepath.Join(dir, "*.midi"))
	if err != nil {
		return nil, errors.Wrapf(model.ErrInternal, "globbing %v: %v", dir, err)
	}

	paths := append(mids, midis...)
	sort.Strings(paths)

	res := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		res = append(res, abs)
	}
	return res, nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(model.ErrNotFound, "missing directory %v", path)
		}
		return errors.Wrapf(model.ErrInternal, "stat %v: %v", path, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(model.ErrNotFound, "%v is not a directory", path)
	}
	return nil
}
