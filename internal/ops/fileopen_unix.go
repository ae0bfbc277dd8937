//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/winterarc/internal/errors"
)

// createNoFollow creates an export temp file with O_NOFOLLOW so the final
// component can never be a symlink. Directory components are covered by
// ValidateExportPath.
func createNoFollow(path string, perm os.FileMode) (*os.File, error) {
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC | syscall.O_NOFOLLOW | syscall.O_CLOEXEC
	fd, err := syscall.Open(path, flag, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidField("path", "cannot write to symlink")
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}
