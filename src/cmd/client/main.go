package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gitlab.com/pnathan/phfwd/src/lib/log"
	"gitlab.com/pnathan/phfwd/src/lib/phfwd"
	"gitlab.com/pnathan/phfwd/src/lib/phfwdapi"
)

func MustMarshal(v any) []byte {
	b := new(bytes.Buffer)
	encoder := json.NewEncoder(b)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		panic(err)
	}

	return b.Bytes()
}

func Moan(complaint error) {
	log.Fatal("", zap.Error(complaint))
	os.Exit(1)
}

func main() {
	parser := argparse.NewParser("phfwd client", "phone forwarding client")

	endpoint := parser.String("e", "endpoint", &argparse.Options{Required: false, Help: "endpoint to address", Default: "http://localhost:1337"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "log debug output"})

	rulePutCmd := parser.NewCommand("rule-put", "forward a prefix onto a target")
	prefix := rulePutCmd.String("f", "from", &argparse.Options{Required: true, Help: "prefix being forwarded"})
	target := rulePutCmd.String("t", "to", &argparse.Options{Required: true, Help: "replacement for the prefix"})

	ruleDeleteCmd := parser.NewCommand("rule-delete", "remove a prefix and every rule below it")
	deleteNumber := ruleDeleteCmd.String("n", "number", &argparse.Options{Required: true, Help: "prefix to remove"})

	rulesGetCmd := parser.NewCommand("rules-get", "get every rule")

	rulesLoadCmd := parser.NewCommand("rules-load", "replace every rule with a rule set file")
	rulesFile := rulesLoadCmd.String("r", "rules", &argparse.Options{Required: true, Help: "JSON rule set"})

	forwardCmd := parser.NewCommand("forward", "resolve a number")
	forwardNumber := forwardCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to resolve"})

	reverseCmd := parser.NewCommand("reverse", "list numbers rules could turn into a number")
	reverseNumber := reverseCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to reverse"})

	consistentCmd := parser.NewCommand("reverse-consistent", "list numbers that resolve to a number")
	consistentNumber := consistentCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to reverse"})

	statisticsCmd := parser.NewCommand("statistics", "get rule and node counts")

	// Parse input
	err := parser.Parse(os.Args)
	if err != nil {
		// In case of error print error and print usage
		// This can also be done by passing -h or --help flags
		fmt.Print(parser.Usage(err))
		return
	}
	if *verbose {
		if err := log.Verbose(); err != nil {
			Moan(err)
		}
	}

	if rulePutCmd.Happened() {
		if err := phfwdapi.PutRule(&phfwd.Rule{Prefix: *prefix, Target: *target}, *endpoint); err != nil {
			Moan(err)
		}
	} else if ruleDeleteCmd.Happened() {
		if err := phfwdapi.DeleteRule(*deleteNumber, *endpoint); err != nil {
			Moan(err)
		}
	} else if rulesGetCmd.Happened() {
		rs, err := phfwdapi.GetRules(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(rs)))
	} else if rulesLoadCmd.Happened() {
		rs, err := phfwdapi.ReadRuleSet(*rulesFile)
		if err != nil {
			Moan(err)
		}
		if err := phfwdapi.LoadRules(rs, *endpoint); err != nil {
			Moan(err)
		}
	} else if forwardCmd.Happened() {
		nl, err := phfwdapi.GetForward(*forwardNumber, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(nl)))
	} else if reverseCmd.Happened() {
		nl, err := phfwdapi.GetReverse(*reverseNumber, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(nl)))
	} else if consistentCmd.Happened() {
		nl, err := phfwdapi.GetConsistentReverse(*consistentNumber, *endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(nl)))
	} else if statisticsCmd.Happened() {
		s, err := phfwdapi.GetStatistics(*endpoint)
		if err != nil {
			Moan(err)
		}
		fmt.Println(string(MustMarshal(s)))
	} else {
		Moan(errors.New("can't happen"))
	}
}
