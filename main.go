package main

import (
	"github.com/flashpoint-tracker/flashpoint/cmd"
)

func main() {
	cmd.Execute()
}
