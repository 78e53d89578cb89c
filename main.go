package main

import "github.com/naka-gawa/portfolio/cmd"

func main() {
	cmd.Execute()
}
