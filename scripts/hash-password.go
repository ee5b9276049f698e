package main

import (
	"fmt"
	"os"

	"github.com/modelmeter/modelmeter/internal/auth"
)

// Generates a bcrypt hash suitable for seeding accounts directly in
// the database, using the same cost the server uses.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
