package main

import (
	"fmt"
	"os"

	_ "github.com/crucial707/web-planner/cmd/cli/auth"
	_ "github.com/crucial707/web-planner/cmd/cli/events"
	_ "github.com/crucial707/web-planner/cmd/cli/tasks"

	"github.com/crucial707/web-planner/cmd/cli/root"
)

func main() {
	// Execute the root Cobra command; subcommands register themselves via init.
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
