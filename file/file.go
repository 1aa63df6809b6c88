package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jsphweid/melodex/model"
)

const maxNameAttempts = 16

// NewOutputPath returns an absolute, currently unused path under dir named
// {stem}-{suffix}-{8 hex chars}.mid, where stem comes from originalPath.
// Fails with an Internal error if every candidate name is taken.
func NewOutputPath(dir string, originalPath string, suffix string) (string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", errors.Wrapf(model.ErrInternal, "creating output dir %v: %v", dir, err)
	}

	base := filepath.Base(originalPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for i := 0; i < maxNameAttempts; i++ {
		// the first 8 chars of a canonical UUID are hex
		name := fmt.Sprintf("%v-%v-%v.mid", stem, suffix, uuid.New().String()[:8])
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", errors.Wrapf(model.ErrInternal, "resolving %v: %v", candidate, err)
			}
			return abs, nil
		}
	}

	return "", errors.Wrapf(model.ErrInternal,
		"no unused output name for %v after %v attempts", originalPath, maxNameAttempts)
}
