// Command signpathctl inspects and changes the session record of a SignPath
// instance without going through its network transports.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, a := newRootCmd()
	if err := execute(root, a); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
