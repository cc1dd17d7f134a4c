// Command coolc is the Cool language interpreter's command-line driver.
package main

import (
	"os"

	"github.com/coolang/coolc/cmd/coolc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
