// Command officer-hash prints a bcrypt hash for seeding an OFFICER account
// row. Officer accounts are provisioned out of band; the API only registers
// clients.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"kyc-desk.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

func resolvePassword(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "Off1cerPass@x"
}

func main() {
	password := resolvePassword(os.Args[1:])

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
	}

	printfFn("id:            %s\n", uuid.New())
	printfFn("password hash: %s\n", hash)
}
