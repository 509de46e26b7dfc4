// Package main provides the entry point for the wordtracker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/wordtracker/cmd/wordtracker/cmd"
	apperrors "github.com/Aman-CERP/wordtracker/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, apperrors.FormatForCLI(err))
		os.Exit(1)
	}
}
