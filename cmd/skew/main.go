// cmd/skew/main.go
package main

import (
	cmd "github.com/mwiater/skew/internal/cli"
)

// main starts the skew CLI application by delegating to the
// cobra root command defined in the skew package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
