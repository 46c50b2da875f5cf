//go:build unix

package filesystem

import (
	"golang.org/x/sys/unix"
)

func checkAccess(path string, mode Mode) error {
	bits := uint32(unix.R_OK | unix.X_OK)
	if mode == ModeReadWrite {
		bits |= unix.W_OK
	}
	return unix.Access(path, bits)
}
