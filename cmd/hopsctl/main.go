// Package main is the entry point for the hopsctl CLI.
package main

import "hops-cache/internal/cli"

func main() {
	cli.Execute()
}
