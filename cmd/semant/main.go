// # cmd/semant/main.go
package main

import (
	"os"

	"semant/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
