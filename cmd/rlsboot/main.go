package main

import "rlsboot/internal/cli"

func main() {
	cli.Execute()
}
