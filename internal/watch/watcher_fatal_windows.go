// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos stop ReadDirectoryChangesW for good. The values are Win32
// codes: too many open files (4), invalid handle once the model directory
// is gone (6), and not enough memory for the change buffer (8).
var fatalErrnos = []syscall.Errno{4, 6, 8}
