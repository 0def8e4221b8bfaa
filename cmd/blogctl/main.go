package main

import "github.com/mcoot/blogfront/internal/cli"

func main() {
	cli.Execute()
}
