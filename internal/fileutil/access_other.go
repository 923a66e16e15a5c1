//go:build !unix

package fileutil

import (
	"fmt"
	"os"
)

// CheckDirWritable verifies that path exists and is a directory. Permission
// probing beyond the stat is unix-only.
func CheckDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
