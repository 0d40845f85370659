// SPDX-License-Identifier: MPL-2.0

// Command blpembed compiles GTK Blueprint files into embeddable Go artifacts.
package main

import cmd "github.com/blpembed/blpembed/cmd/blpembed"

func main() {
	cmd.Execute()
}
