package main

import "arbeitszeit/internal/cli"

func main() {
	cli.Execute()
}
