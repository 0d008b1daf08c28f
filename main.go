package main

import (
	"os"

	"github.com/coursemark/coursemark/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
