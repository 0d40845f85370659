// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	for err, want := range map[error]bool{
		syscall.ENOSPC: true,
		syscall.EMFILE: true,
		syscall.ENFILE: true,
		syscall.EPERM:  false,
		syscall.EACCES: false,
	} {
		if got := isFatalFsnotifyError(err); got != want {
			t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", err, got, want)
		}
	}

	if !isFatalFsnotifyError(fmt.Errorf("inotify_add_watch: %w", syscall.ENOSPC)) {
		t.Error("wrapped ENOSPC should be fatal")
	}
}
