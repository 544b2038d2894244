package pull

import (
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

// fs is used for mock tests. It will be overridden by afero.NewMemMapFs()
// in the tests.
var fs = afero.NewOsFs()

// IsModified returns whether the local copy at `path` is stale compared to
// the remote object. The local copy is stale if it doesn't exist, or if its
// modification time differs from the object's last-modified time.
//
// Contents aren't compared. Touching the local file is enough to trigger a
// download on the next pull.
func IsModified(info remote.ObjectInfo, path string) (bool, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.WithContext(err, "stat local copy")
	}
	return !sameModTime(fi.ModTime(), info.LastModified), nil
}

// sameModTime compares at one second resolution, which is all the object
// store reports.
func sameModTime(local, remote time.Time) bool {
	return local.Truncate(time.Second).Equal(remote.Truncate(time.Second))
}

// setModTime stamps `path` with the remote last-modified time so that the
// next IsModified check considers it up to date.
func setModTime(path string, modTime time.Time) error {
	return fs.Chtimes(path, modTime, modTime)
}
