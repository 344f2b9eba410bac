// Package main is the entry point for the mgi CLI tool, which finds untraded
// deaths in League of Legends series event logs and scores them.
package main

import "github.com/pable/go-lol-mgi/cmd"

func main() {
	cmd.Execute()
}
