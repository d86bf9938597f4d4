// main is the entry point for the auditpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/retailops/auditpulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
