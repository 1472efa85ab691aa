// AngelaMos | 2026
// main.go

package main

import (
	"github.com/angelamos/promptvault/cmd/pvctl/commands"
)

func main() {
	commands.Execute()
}
