package main

import (
	"fmt"
	"os"

	"fjacquet/finledger/cmd/category"
	"fjacquet/finledger/cmd/closeperiod"
	"fjacquet/finledger/cmd/ingest"
	"fjacquet/finledger/cmd/initdb"
	"fjacquet/finledger/cmd/post"
	"fjacquet/finledger/cmd/report"
	"fjacquet/finledger/cmd/root"
	"fjacquet/finledger/cmd/rules"
	"fjacquet/finledger/cmd/txn"
	"fjacquet/finledger/cmd/verify"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(initdb.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(txn.Cmd)
	root.Cmd.AddCommand(post.Cmd)
	root.Cmd.AddCommand(verify.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(closeperiod.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
