package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/pathwell/labscan/cmd"
	"github.com/pathwell/labscan/internal/utils"
)

func main() {
	// A .env file is optional, but a malformed one is a config error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.ExitOnError("Error loading .env file", err)
	}

	if err := fang.Execute(context.Background(), cmd.RootCmd); err != nil {
		os.Exit(1)
	}
}
