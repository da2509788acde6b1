package main

import "github.com/momeni/docproc/cmd/docproc/command"

func main() {
	command.Execute()
}
