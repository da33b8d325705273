// Command hero is the command-line client for the account API.
package main

import "github.com/nelson/you-are-the-hero/internal/cli"

func main() {
	cli.Execute()
}
