package index

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/constants"
	"github.com/jsphweid/melodex/melody"
	"github.com/jsphweid/melodex/midi"
	"github.com/jsphweid/melodex/model"
)

// Summary reports how an index build went. Skips are not failures: a single
// bad file never aborts the batch.
type Summary struct {
	Indexed int
	Skipped int
}

// Build runs the melody extractor over every path in order and assembles the
// index. Files that cannot be parsed or yield no melody are counted and
// skipped.
func Build(databaseRoot string, paths []string, log *zap.Logger) (model.Index, Summary) {
	idx := model.Index{
		DatabaseRoot: databaseRoot,
		Entries:      []model.IndexEntry{},
	}
	var sum Summary

	for i, path := range paths {
		log.Info("indexing",
			zap.Int("n", i+1),
			zap.Int("total", len(paths)),
			zap.String("path", path))

		s, err := midi.ReadMidiFile(path)
		if err != nil {
			log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			sum.Skipped++
			continue
		}
		seq := melody.ExtractMelody(s, log)
		if len(seq) == 0 {
			log.Warn("skipping file with no melody", zap.String("path", path))
			sum.Skipped++
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		idx.Entries = append(idx.Entries, model.IndexEntry{Path: abs, MelodySequence: seq})
		sum.Indexed++
	}
	return idx, sum
}

// PathFor returns where the index for a database root is persisted.
func PathFor(databaseRoot string) string {
	return filepath.Join(databaseRoot, constants.IndexFilename)
}

// Save writes idx as indented JSON. A rebuild replaces the file wholesale.
func Save(idx model.Index, path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "encoding index: %v", err)
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(model.ErrInternal, "writing index %v: %v", path, err)
	}
	return nil
}

// Load reads a previously built index.
func Load(path string) (model.Index, error) {
	var idx model.Index
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, errors.Wrapf(model.ErrNotFound, "index %v", path)
		}
		return idx, errors.Wrapf(model.ErrInternal, "reading index %v: %v", path, err)
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return idx, errors.Wrapf(model.ErrCorrupt, "decoding index %v: %v", path, err)
	}
	return idx, nil
}
