package main

import (
	"os"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
