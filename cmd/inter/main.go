// Package main é o ponto de entrada do CLI da API de parceiros do Inter
package main

import (
	"fmt"
	"os"

	"github.com/magnani/inter-sdk-go/internal/adapters/inter"
	"github.com/magnani/inter-sdk-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(inter.Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}
