package main

import (
	"github.com/outofforest/proton"
	"github.com/outofforest/pulse/test/appwire"
)

//go:generate go run .
func main() {
	proton.Generate("../types.proton.go",
		proton.Message[appwire.Chat](),
		proton.Message[appwire.Score](),
	)
}
