package main

import "github.com/Srivenkatesh03/playto/cmd/feedctl/commands"

func main() {
	commands.Execute()
}
