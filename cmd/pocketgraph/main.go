// Command pocketgraph runs pocketgraph flows from the terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{}
	if err := a.execute(a.rootCmd(), nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
