package main

import (
	"dribbble-scraper/cmd/dribbble/commands"
)

func main() {
	commands.Execute()
}
