package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gitlab.com/pnathan/phfwd/src/lib/log"
	"gitlab.com/pnathan/phfwd/src/lib/phfwd"
	"gitlab.com/pnathan/phfwd/src/lib/phfwdapi"
)

type query func(pf *phfwd.PhoneForward, num string) *phfwd.Numbers

// run answers one query against the rules in filename, printing one
// number per line.
func run(out io.Writer, filename string, q query, num string) error {
	rs, err := phfwdapi.ReadRuleSet(filename)
	if err != nil {
		return err
	}
	pf, err := rs.Build()
	if err != nil {
		return err
	}

	result := q(pf, num)
	if !result.Valid() {
		return errors.Wrapf(phfwd.ErrInvalidNumber, "%q", num)
	}
	for _, n := range result.Slice() {
		fmt.Fprintln(out, n)
	}
	return nil
}

func main() {
	parser := argparse.NewParser("phfwd", "evaluates forwarding rules locally")

	rules := parser.String("r", "rules", &argparse.Options{Required: true, Help: "JSON rule set"})

	getCmd := parser.NewCommand("get", "resolve a number")
	getNumber := getCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to resolve"})
	reverseCmd := parser.NewCommand("reverse", "list numbers rules could turn into a number")
	reverseNumber := reverseCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to reverse"})
	consistentCmd := parser.NewCommand("consistent", "list numbers that resolve to a number")
	consistentNumber := consistentCmd.String("n", "number", &argparse.Options{Required: true, Help: "number to reverse"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		return
	}

	switch {
	case getCmd.Happened():
		err = run(os.Stdout, *rules, (*phfwd.PhoneForward).Get, *getNumber)
	case reverseCmd.Happened():
		err = run(os.Stdout, *rules, (*phfwd.PhoneForward).Reverse, *reverseNumber)
	case consistentCmd.Happened():
		err = run(os.Stdout, *rules, (*phfwd.PhoneForward).GetReverse, *consistentNumber)
	}
	if err != nil {
		log.Fatal("query failed", zap.String("rules", *rules), zap.Error(err))
	}
}
