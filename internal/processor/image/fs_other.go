//go:build !unix

package image

import "os"

func isWritable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().Perm()&0o200 != 0
}

func isCrossDevice(error) bool {
	return false
}
