package main

import "github.com/example/sweepalert/cmd"

func main() {
	cmd.Execute()
}
