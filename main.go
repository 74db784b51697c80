package main

import "github.com/akashicode/grade/cmd"

func main() {
	cmd.Execute()
}
