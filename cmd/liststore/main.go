// Command liststore replays diff scripts against a typed list store.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/liststore/cmd/liststore/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
