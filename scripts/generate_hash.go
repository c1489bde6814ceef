//go:build ignore

// generate_hash.go: utility for generating a bcrypt password hash.
// Run: go run scripts/generate_hash.go <password>
//
// Useful for seeding an account by hand through SQL.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/generate_hash.go <password>")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("bcrypt hash:")
	fmt.Println(string(hash))
}
