// Package main is the entry point of the disirctl command.
package main

import (
	"github.com/veeg-labs/disir-go/cmd/disirctl/command"
)

func main() {
	command.Execute()
}
