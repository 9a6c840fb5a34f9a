// Package main implements flashctl, the operator CLI for cardchat. It applies
// database migrations, seeds sample sets, inspects stored sets and generates
// new ones from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	rc, err := Cli(os.Args[1:], NewCliConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "flashctl: %v\n", err)
	}
	os.Exit(rc)
}
