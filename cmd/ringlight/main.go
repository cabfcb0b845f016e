package main

import "github.com/ringlight-eda/ringlight/cmd/ringlight/cmd"

func main() {
	cmd.Execute()
}
