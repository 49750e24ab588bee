// ABOUTME: Entry point for pelikan-sizer CLI
// ABOUTME: Sizes Pelikan cache clusters from the terminal or CI scripts

package main

import (
	"fmt"
	"os"

	"github.com/pelikan-io/capacity-calculator/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
