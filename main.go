package main

import (
	"os"

	"helixc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
