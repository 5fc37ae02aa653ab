package main

import "github.com/OpenTraceLab/OpenTraceXTCE/cmd/xtceview/cmd"

func main() {
	cmd.Execute()
}
