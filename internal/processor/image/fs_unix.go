//go:build unix

package image

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isWritable asks the kernel whether the calling process may write to path.
func isWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
