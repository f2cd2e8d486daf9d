package main

import (
	"fmt"
	"os"

	"github.com/harsha499/incident-desk/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
