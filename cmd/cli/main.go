package main

import (
	"os"

	"workhub/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
