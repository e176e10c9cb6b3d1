package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Generates the bcrypt hash for the global admin password used in
// password auth mode. Put the output in ADMIN_PASSWORD_HASH.
func main() {
	fmt.Println("=== Set Global Admin Password ===")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		os.Exit(1)
	}
	fmt.Println()
	if len(bytePassword) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	fmt.Print("Confirm Password: ")
	byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		os.Exit(1)
	}
	fmt.Println()
	if string(bytePassword) != string(byteConfirm) {
		fmt.Println("Error: Passwords do not match")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(bytePassword, bcrypt.DefaultCost)
	if err != nil {
		fmt.Println("Error: Failed to hash password")
		os.Exit(1)
	}

	fmt.Println("\nAdd this to your environment:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
