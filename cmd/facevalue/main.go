// facevalue - CLI for designing and debugging face value field layouts.
package main

import (
	"github.com/SeamusWaldron/facevalue/internal/cli"
)

func main() {
	cli.Execute()
}
