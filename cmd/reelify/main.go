package main

import "github.com/reelify/reelify/internal/cli"

func main() {
	cli.Main()
}
