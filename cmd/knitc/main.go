// Command knitc is a thin CLI front door over the knitting-skeleton
// compiler.
// It is a caller of github.com/knitgraph/compiler's packages, never
// imported by them.
package main

import "github.com/knitgraph/compiler/cmd/knitc/cmd"

func main() {
	cmd.Execute()
}
