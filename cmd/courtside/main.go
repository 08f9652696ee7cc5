package main

import (
	"courtside/cmd/handlers"
	"courtside/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
