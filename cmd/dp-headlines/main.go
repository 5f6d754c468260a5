package main

import "github.com/pfrederiksen/dp-headlines/internal/cli"

func main() {
	cli.Execute()
}
