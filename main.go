// This is free and unencumbered software released into the public domain.
// See the UNLICENSE file for details.

// Package main - enigma simulates the Enigma family of rotor cipher
// machines.
package main

import "github.com/bgallie/enigma/cmd"

func main() {
	cmd.Execute()
}
