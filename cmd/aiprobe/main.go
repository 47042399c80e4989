// Command aiprobe smoke-tests the waste classification backend.
package main

import (
	"os"

	"github.com/hamed0406/aiprobe/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
