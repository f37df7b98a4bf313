package main

import "github.com/marshallshelly/stockroom/cmd/stockroom/commands"

func main() {
	commands.Execute()
}
