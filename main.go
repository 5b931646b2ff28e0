package main

import "github.com/juststeveking/spacecount/cmd"

func main() {
	cmd.Execute()
}
