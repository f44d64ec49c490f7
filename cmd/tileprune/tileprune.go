package main

import (
	"fmt"
	"github.com/jessevdk/go-flags"
	"github.com/paulkoehlerdev/TilePrune/pkg/tileprune/interface/cli"
	"github.com/rs/zerolog/log"
	"os"
)

func main() {
	parser, _ := cli.NewParser(os.Stdout)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, flagsErr.Message)
				os.Exit(0)
			}
			fmt.Fprintln(os.Stderr, flagsErr.Message)
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("Command failed")
	}
}
