package main

import (
	"github.com/procdoc/sopgov/cmd"
)

func main() {
	cmd.Execute()
}
