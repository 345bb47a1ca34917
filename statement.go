package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thatsLegit/sqlite-clone/table"
)

// StatementType distinguishes the two statements this engine understands.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is the parsed, validated form of a statement line, ready to be
// executed against the table.
type Statement struct {
	Type        StatementType
	RowToInsert table.Row
}

// PrepareResult is the parser's verdict on an input line.
type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareSyntaxError
	PrepareNegativeID
	PrepareStringTooLong
	PrepareUnrecognizedStatement
)

// prepareStatement parses line into stmt. Constraint violations (negative
// id, overlong fields, malformed insert) are reported here and never reach
// the engine.
func prepareStatement(line string, stmt *Statement) PrepareResult {
	if line == "select" {
		stmt.Type = StatementSelect
		return PrepareSuccess
	}

	if strings.HasPrefix(line, "insert") {
		return prepareInsert(line, stmt)
	}

	return PrepareUnrecognizedStatement
}

func prepareInsert(line string, stmt *Statement) PrepareResult {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return PrepareSyntaxError
	}

	id, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return PrepareSyntaxError
	}
	if id < 0 {
		return PrepareNegativeID
	}

	username, email := fields[2], fields[3]
	if len(username) > table.MaxUsernameLen {
		return PrepareStringTooLong
	}
	if len(email) > table.MaxEmailLen {
		return PrepareStringTooLong
	}

	stmt.Type = StatementInsert
	stmt.RowToInsert = table.Row{ID: uint32(id), Username: username, Email: email}
	return PrepareSuccess
}

// executeStatement runs a validated statement against tbl, printing select
// results directly to stdout via the row's textual representation.
func executeStatement(stmt *Statement, tbl *table.Table) table.ExecuteResult {
	switch stmt.Type {
	case StatementInsert:
		res, err := tbl.Insert(stmt.RowToInsert.ID, stmt.RowToInsert)
		if err != nil {
			fmt.Println("Error:", err)
			return table.ExecuteFailure
		}
		return res

	case StatementSelect:
		return executeSelect(tbl)
	}
	return table.ExecuteFailure
}

func executeSelect(tbl *table.Table) table.ExecuteResult {
	cursor, err := tbl.ScanStart()
	if err != nil {
		fmt.Println("Error:", err)
		return table.ExecuteFailure
	}

	for !cursor.EndOfTable {
		row, err := cursor.Row()
		if err != nil {
			fmt.Println("Error:", err)
			return table.ExecuteFailure
		}
		fmt.Printf("(%d, %s, %s)\n", row.ID, row.Username, row.Email)
		if err := cursor.Advance(); err != nil {
			fmt.Println("Error:", err)
			return table.ExecuteFailure
		}
	}

	return table.ExecuteSuccess
}
