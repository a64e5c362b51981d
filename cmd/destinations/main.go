package main

import (
	"log"

	"github.com/karripar/va-backend-sub000/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ destinations service failed to start: %v", err)
	}
}
