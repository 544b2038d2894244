package main

import (
	"github.com/biomage-org/biomage-utils/cmd"
	"github.com/biomage-org/biomage-utils/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
