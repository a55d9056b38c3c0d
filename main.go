package main

import (
	"github.com/renomhq/renom/cmd"
)

func main() {
	cmd.Execute()
}
