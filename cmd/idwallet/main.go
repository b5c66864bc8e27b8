package main

import (
	"fmt"
	"os"
)

// idwallet runs the account holder's side of identity issuance and credential deployment
// on JSON documents.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
