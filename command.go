package main

import (
	"fmt"
	"os"

	"github.com/thatsLegit/sqlite-clone/table"
)

// MetaCommandResult is the dispatcher's verdict on a "." line.
type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// doMetaCommand handles the three meta commands this engine understands:
// .exit flushes and terminates the process; .btree and .constants print
// debug output. Any other "." line is unrecognized.
func doMetaCommand(line string, tbl *table.Table) MetaCommandResult {
	switch line {
	case ".exit":
		if err := tbl.Close(); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		os.Exit(0)

	case ".btree":
		fmt.Println("Tree:")
		if err := tbl.PrintTree(os.Stdout, tbl.RootPageNum, 0); err != nil {
			fmt.Println("Error:", err)
		}

	case ".constants":
		table.PrintConstants(os.Stdout)

	default:
		return MetaCommandUnrecognizedCommand
	}

	return MetaCommandSuccess
}
