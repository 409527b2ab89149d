package main

import (
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/omarshaarawi/rotobot/cmd/rotobot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}
