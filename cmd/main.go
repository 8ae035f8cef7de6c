package main

import (
	"github.com/kerbaras/mangashelf/cmd/mangashelf"
)

func main() {
	cmd.Execute()
}
