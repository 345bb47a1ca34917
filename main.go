package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/thatsLegit/sqlite-clone/table"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Must supply a database filename.")
		os.Exit(1)
	}
	filename := os.Args[1]

	tbl, err := table.Open(filename)
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		line, err := readInput(reader)
		if err != nil {
			// EOF on stdin behaves like .exit: flush and leave cleanly.
			if closeErr := tbl.Close(); closeErr != nil {
				fmt.Println("Error:", closeErr)
				os.Exit(1)
			}
			os.Exit(0)
		}

		if strings.HasPrefix(line, ".") {
			switch doMetaCommand(line, tbl) {
			case MetaCommandSuccess:
				continue
			case MetaCommandUnrecognizedCommand:
				fmt.Printf("Unrecognized command '%s'\n", line)
				continue
			}
		}

		var stmt Statement
		switch prepareStatement(line, &stmt) {
		case PrepareSuccess:
			// fall through to execution below

		case PrepareNegativeID:
			fmt.Println("ID must be positive.")
			continue

		case PrepareStringTooLong:
			fmt.Println("String is too long.")
			continue

		case PrepareSyntaxError:
			fmt.Printf("Syntax error. Could not parse statement %s\n", line)
			continue

		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", line)
			continue
		}

		switch executeStatement(&stmt, tbl) {
		case table.ExecuteSuccess:
			fmt.Println("Executed.")
		case table.ExecuteDuplicateKey:
			fmt.Println("Error: Duplicate key.")
		case table.ExecuteTableFull:
			fmt.Println("Error: Table full.")
		case table.ExecuteFailure:
			// executeStatement has already printed the underlying error.
		}
	}
}
