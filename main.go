package main

import "github.com/modifikasi/partsdesk/commands"

func main() {
	commands.Execute()
}
