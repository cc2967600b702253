package main

import "github.com/kozaktomas/inspection-report/cmd"

func main() {
	cmd.Execute()
}
