// Package main is the pagesim command.
package main

import "github.com/sarchlab/pagesim/pagesim/cmd"

func main() {
	cmd.Execute()
}
