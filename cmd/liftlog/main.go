package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/balkashynov/liftlog/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// LIFTLOG_* overrides may come from a .env file in the working directory
	_ = godotenv.Load()

	commands.SetVersion(version, commit, date)
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
