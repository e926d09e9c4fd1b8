package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
