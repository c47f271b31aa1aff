package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/breakeven/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	// optional .env file carrying the market data API key
	godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "")

	flag.Parse()

	// Without a subcommand the binary runs the report flow directly, so the
	// plain `bkv -i input.txt -s AAPL` invocation works.
	if flag.NArg() == 0 {
		os.Exit(int(cmd.RunReport(context.Background())))
	}
	os.Exit(int(commander.Execute(context.Background())))
}
