package main

import (
	"os"

	"SwiftPush/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
