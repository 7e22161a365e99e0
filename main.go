package main

import "github.com/khanhnv2901/stackaudit/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
