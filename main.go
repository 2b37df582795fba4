// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fmkit/fmkit/cmd/fmkit"

func main() {
	cmd.Execute()
}
