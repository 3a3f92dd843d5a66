package main

import (
	"fmt"
	"os"

	"github.com/mrled/suns/msgsvc/cmd/msgsvc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
