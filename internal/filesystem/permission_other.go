//go:build !unix

package filesystem

import (
	"fmt"
	"os"
)

func checkAccess(path string, mode Mode) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	if mode == ModeReadWrite && info.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("%s is read-only", path)
	}
	return nil
}
