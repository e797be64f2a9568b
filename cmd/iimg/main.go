package main

import "github.com/blacktop/go-iterm2img/cmd/iimg/cmd"

func main() {
	cmd.Execute()
}
