// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos stop an inotify watcher for good: the user watch limit
// (fs.inotify.max_user_watches) surfaces as ENOSPC, descriptor exhaustion
// as EMFILE or ENFILE.
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
