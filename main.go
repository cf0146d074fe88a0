package main

import "opschat/cmd"

func main() {
	cmd.Execute()
}
