package main

import "github.com/jerilmartin/rankprobe/cmd"

func main() {
	cmd.Execute()
}
