package main

import "github.com/worklens/worklens/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
