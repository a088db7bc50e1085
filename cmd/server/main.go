package main

import "github.com/oornnery/site/cmd/server/cmd"

func main() {
	cmd.Execute()
}
