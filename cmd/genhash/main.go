package main

import (
	"fmt"
	"os"

	"ibkr-relay/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <api-key>")
		os.Exit(2)
	}
	hash, err := auth.HashKey(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("API_KEY_HASH=%s\n", hash)
}
