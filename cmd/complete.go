package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/rebalance/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var documents = predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml"))

// Completion returns the shell completion of rebal: its global flags and
// every registered subcommand with its flags.
//
// Install it with COMP_INSTALL=1 rebal.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(global),
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: flagPredictors(fs)}
			if c.Name() == "topic" {
				sub.Args = topicPredictor()
			}
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case isBool(f):
			res[f.Name] = predict.Nothing
		case f.Name == "t" || strings.HasSuffix(f.Name, "-file"):
			res[f.Name] = documents
		default:
			res[f.Name] = predict.Something
		}
	})
	return res
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func topicPredictor() complete.Predictor {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return predict.Nothing
	}
	return predict.Set(append(topics, "*"))
}
