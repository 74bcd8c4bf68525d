package main

import (
	"os"

	"dashflow-service/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
