// Command boardctl inspects and edits whiteboard boards stored on disk.
package main

import "github.com/mesh-intelligence/boardstore/internal/cli"

func main() {
	cli.Execute()
}
