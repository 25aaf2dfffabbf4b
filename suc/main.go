package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/srri/cmd"
)

func main() {
	// Shell completion runs before flag parsing and exits on its own when
	// invoked by the shell.
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	formats := predict.Set{"yyyy-mm-dd", "yyyy-dd-mm"}
	records := map[string]complete.Predictor{
		"m": predict.Files("*.csv"),
		"p": predict.Files("*.csv"),
		"o": predict.Files("*.csv"),
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{"date-format": formats},
		Sub: map[string]*complete.Command{
			"monitoring": {Flags: map[string]complete.Predictor{
				"i": predict.Files("*.csv"),
				"o": predict.Files("*.csv"),
			}},
			"permalink": {Flags: map[string]complete.Predictor{
				"i": predict.Files("*"),
				"o": predict.Files("*.csv"),
			}},
			"compare": {Flags: records},
			"assist":  {Flags: records},
		},
	}
}
