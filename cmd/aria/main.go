package main

import (
	"log"
	"os"
	_ "time/tzdata"

	"github.com/aria/reminders/cmd/aria/commands"
)

// @title ARIA Reminders API
// @version 1.0
// @description Reminders and time context for the ARIA assistant

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
