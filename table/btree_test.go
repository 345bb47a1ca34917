package table

import (
	"bytes"
	"os"
	"testing"
)

func newTempTable(t *testing.T) *Table {
	t.Helper()
	tmp, err := os.CreateTemp("", "btree_test_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	t.Cleanup(func() { os.Remove(path) })

	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tbl
}

func scanAll(t *testing.T, tbl *Table) []Row {
	t.Helper()
	cursor, err := tbl.ScanStart()
	if err != nil {
		t.Fatalf("ScanStart: %v", err)
	}
	var rows []Row
	for !cursor.EndOfTable {
		row, err := cursor.Row()
		if err != nil {
			t.Fatalf("cursor.Row: %v", err)
		}
		rows = append(rows, row)
		if err := cursor.Advance(); err != nil {
			t.Fatalf("cursor.Advance: %v", err)
		}
	}
	return rows
}

func TestInsertAndScanSingleRow(t *testing.T) {
	tbl := newTempTable(t)
	defer tbl.Close()

	res, err := tbl.Insert(1, Row{ID: 1, Username: "user1", Email: "person1@example.com"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if res != ExecuteSuccess {
		t.Fatalf("Insert result = %v, want ExecuteSuccess", res)
	}

	rows := scanAll(t, tbl)
	if len(rows) != 1 || rows[0].ID != 1 || rows[0].Username != "user1" {
		t.Fatalf("scan = %+v", rows)
	}
}

func TestUnorderedInsertsScanInKeyOrder(t *testing.T) {
	tbl := newTempTable(t)
	defer tbl.Close()

	for _, k := range []uint32{3, 1, 2} {
		if res, err := tbl.Insert(k, Row{ID: k, Username: "u", Email: "e@example.com"}); err != nil || res != ExecuteSuccess {
			t.Fatalf("Insert(%d) = %v, %v", k, res, err)
		}
	}

	rows := scanAll(t, tbl)
	var got []uint32
	for _, r := range rows {
		got = append(got, r.ID)
	}
	want := []uint32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("scan ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scan ids = %v, want %v", got, want)
		}
	}
}

func TestDuplicateKeyRejectedWithoutMutation(t *testing.T) {
	tbl := newTempTable(t)
	defer tbl.Close()

	if res, err := tbl.Insert(1, Row{ID: 1, Username: "u1", Email: "e1@example.com"}); err != nil || res != ExecuteSuccess {
		t.Fatalf("first insert: %v, %v", res, err)
	}

	before := scanAll(t, tbl)

	res, err := tbl.Insert(1, Row{ID: 1, Username: "u2", Email: "e2@example.com"})
	if err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}
	if res != ExecuteDuplicateKey {
		t.Fatalf("Insert duplicate result = %v, want ExecuteDuplicateKey", res)
	}

	after := scanAll(t, tbl)
	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("tree mutated by rejected duplicate insert: before=%+v after=%+v", before, after)
	}
}

func TestLeafSplitPromotesNewRoot(t *testing.T) {
	tbl := newTempTable(t)
	defer tbl.Close()

	for k := uint32(1); k <= 14; k++ {
		res, err := tbl.Insert(k, Row{ID: k, Username: "u", Email: "e@example.com"})
		if err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
		if res != ExecuteSuccess {
			t.Fatalf("Insert(%d) result = %v, want ExecuteSuccess", k, res)
		}
	}

	rows := scanAll(t, tbl)
	if len(rows) != 14 {
		t.Fatalf("scan returned %d rows, want 14", len(rows))
	}
	for i, r := range rows {
		if r.ID != uint32(i+1) {
			t.Fatalf("rows[%d].ID = %d, want %d", i, r.ID, i+1)
		}
	}

	root, err := tbl.Pager.GetPage(tbl.RootPageNum)
	if err != nil {
		t.Fatalf("GetPage(root): %v", err)
	}
	if getNodeType(root) != NodeInternal {
		t.Fatalf("root node type = %v, want NodeInternal after split", getNodeType(root))
	}
	if got := internalNumKeys(root); got != 1 {
		t.Fatalf("root num_keys = %d, want 1", got)
	}
	if got := internalKey(root, 0); got != 7 {
		t.Fatalf("root key(0) = %d, want 7", got)
	}

	var buf bytes.Buffer
	if err := tbl.PrintTree(&buf, tbl.RootPageNum, 0); err != nil {
		t.Fatalf("PrintTree: %v", err)
	}
	want := "- internal (size 1)\n" +
		"  - leaf (size 7)\n" +
		"    - 1\n    - 2\n    - 3\n    - 4\n    - 5\n    - 6\n    - 7\n" +
		"  - key 7\n" +
		"  - leaf (size 7)\n" +
		"    - 8\n    - 9\n    - 10\n    - 11\n    - 12\n    - 13\n    - 14\n"
	if buf.String() != want {
		t.Fatalf("PrintTree =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestNonRootLeafSplitReturnsTableFull(t *testing.T) {
	tbl := newTempTable(t)
	defer tbl.Close()

	// Fill the root leaf, split once (root -> internal with two leaves),
	// then keep inserting into the right leaf until it would need to split
	// again: that split targets a non-root leaf and must be refused.
	for k := uint32(1); k <= 14; k++ {
		if _, err := tbl.Insert(k, Row{ID: k, Username: "u", Email: "e@example.com"}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}

	var lastResult ExecuteResult
	var lastErr error
	for k := uint32(15); k <= 30; k++ {
		lastResult, lastErr = tbl.Insert(k, Row{ID: k, Username: "u", Email: "e@example.com"})
		if lastErr != nil {
			t.Fatalf("Insert(%d): %v", k, lastErr)
		}
		if lastResult == ExecuteTableFull {
			break
		}
	}
	if lastResult != ExecuteTableFull {
		t.Fatalf("expected ExecuteTableFull once a non-root leaf overflows, got %v", lastResult)
	}
}

func TestCloseAndReopenPreservesRows(t *testing.T) {
	tmp, err := os.CreateTemp("", "btree_persist_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := tbl.Insert(1, Row{ID: 1, Username: "user1", Email: "person1@example.com"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer reopened.Close()

	rows := scanAll(t, reopened)
	if len(rows) != 1 || rows[0].ID != 1 || rows[0].Username != "user1" {
		t.Fatalf("reopened scan = %+v", rows)
	}
}
