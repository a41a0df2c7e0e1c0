package main

import (
	"fmt"
	"os"

	"github.com/m0th3rfkr/ejecucion-publica/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
