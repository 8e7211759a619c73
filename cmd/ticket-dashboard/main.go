package main

import (
	"log"

	"github.com/AngelP17/ticketing/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
