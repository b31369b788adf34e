package main

import "github.com/sethrylan/feishu-reader/cmd"

func main() {
	cmd.Execute()
}
