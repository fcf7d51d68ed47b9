package main

import (
	"fmt"
	"os"

	"github.com/bhau7233/MSig/errors"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		code, log := errors.Info(err, debug)
		fmt.Fprintf(os.Stderr, "Error %d: %s\n", code, log)
		os.Exit(1)
	}
}
