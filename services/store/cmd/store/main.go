package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/bookstore/services/store/internal/cmd"
)

func main() {
	if err := godotenv.Load("services/store/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}
	cmd.Execute()
}
