package unzip

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/thought-machine/unjar/src/cli"
	"github.com/thought-machine/unjar/src/fs"
)

// staged calls extract on a temporary directory next to root, and merges the result into
// root once it has succeeded. If it fails, root is left as it was.
// The temporary directory is always removed, even if we get killed partway through.
func (e *Extractor) staged(root string, extract func(dest string) error) (err error) {
	parent := filepath.Dir(root)
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(root)+".unjar-")
	if err != nil {
		return ioError("create staging directory in", parent, err)
	}
	cancel := cli.AtExit(func() {
		os.RemoveAll(staging)
	})
	defer cancel()
	defer func() {
		if rerr := os.RemoveAll(staging); rerr != nil {
			err = multierror.Append(err, ioError("remove staging directory", staging, rerr))
		}
	}()
	log.Debug("Staging extraction into %s", staging)
	if err := extract(staging); err != nil {
		return err
	}
	return ioError("move staged files into", root, fs.MergeTree(staging, root, warnReplaced))
}
