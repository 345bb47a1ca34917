package table

import (
	"log"
	"sort"

	"github.com/pkg/errors"
	"github.com/thatsLegit/sqlite-clone/pager"
)

// ExecuteResult is the status the B+-tree returns to the command
// dispatcher for a single statement execution.
type ExecuteResult int

const (
	ExecuteSuccess ExecuteResult = iota
	ExecuteDuplicateKey
	ExecuteTableFull
	ExecuteFailure
)

// Table is the B+-tree: a root page number plus the pager that backs it.
// The root is always page 0.
type Table struct {
	Pager       *pager.Pager
	RootPageNum uint32
}

// Open opens (or creates) the database file at path and returns the table
// rooted at page 0. A brand-new file gets a fresh, empty root leaf.
func Open(path string) (*Table, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "table: open pager")
	}

	t := &Table{Pager: p, RootPageNum: 0}

	if p.NumPages() == 0 {
		root, err := p.GetPage(0)
		if err != nil {
			return nil, errors.Wrap(err, "table: allocate root page")
		}
		initializeLeafNode(root)
		setNodeRoot(root, true)
	}

	return t, nil
}

// Close flushes every dirty page and releases the file descriptor.
func (t *Table) Close() error {
	return errors.Wrap(t.Pager.Close(), "table: close")
}

// Cursor is a logical position (page_num, cell_num, end_of_table) used both
// as an insertion point and as a scan iterator.
type Cursor struct {
	table      *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Find descends from the root to the leaf that should contain key, and
// returns a cursor positioned at the matching cell on a hit, or at the
// smallest cell with a strictly greater key otherwise.
func (t *Table) Find(key uint32) (*Cursor, error) {
	return t.findFrom(t.RootPageNum, key)
}

func (t *Table) findFrom(pageNum uint32, key uint32) (*Cursor, error) {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return nil, errors.Wrapf(err, "table: find: get page %d", pageNum)
	}

	if getNodeType(page) == NodeLeaf {
		return t.leafFind(pageNum, page, key)
	}
	return t.internalFind(pageNum, page, key)
}

// leafFind binary-searches a leaf's cells for key.
func (t *Table) leafFind(pageNum uint32, page *Page, key uint32) (*Cursor, error) {
	numCells := leafNumCells(page)

	cellNum := uint32(sort.Search(int(numCells), func(i int) bool {
		return leafKey(page, uint32(i)) >= key
	}))

	return &Cursor{
		table:      t,
		PageNum:    pageNum,
		CellNum:    cellNum,
		EndOfTable: numCells == 0,
	}, nil
}

// internalFind finds the smallest key[i] >= key and recurses into child(i)
// (the rightmost child when i == num_keys). Internal keys store the max of
// the left subtree, so ties resolve left.
func (t *Table) internalFind(pageNum uint32, page *Page, key uint32) (*Cursor, error) {
	numKeys := internalNumKeys(page)

	i := uint32(sort.Search(int(numKeys), func(i int) bool {
		return internalKey(page, uint32(i)) >= key
	}))

	childPageNum := internalChild(page, i)
	return t.findFrom(childPageNum, key)
}

// Insert adds key/row into the tree. Duplicate keys are rejected without
// mutation; a non-root leaf overflow would require rewriting separator
// keys in a parent internal node (and possibly splitting that parent in
// turn), which this tree does not implement, so it is reported as
// ExecuteTableFull rather than guessed at.
func (t *Table) Insert(key uint32, row Row) (ExecuteResult, error) {
	cursor, err := t.Find(key)
	if err != nil {
		return ExecuteFailure, err
	}

	if !cursor.EndOfTable {
		page, err := t.Pager.GetPage(cursor.PageNum)
		if err != nil {
			return ExecuteFailure, err
		}
		if cursor.CellNum < leafNumCells(page) && leafKey(page, cursor.CellNum) == key {
			return ExecuteDuplicateKey, nil
		}
	}

	return t.leafInsert(cursor, key, row)
}

func (t *Table) leafInsert(cursor *Cursor, key uint32, row Row) (ExecuteResult, error) {
	page, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return ExecuteFailure, err
	}

	numCells := leafNumCells(page)
	if numCells >= LeafNodeMaxCells {
		return t.leafSplitAndInsert(cursor, key, row)
	}

	// shift cells [cell_num, num_cells) one slot right
	for i := numCells; i > cursor.CellNum; i-- {
		copy(leafCell(page, i), leafCell(page, i-1))
	}

	setLeafKey(page, cursor.CellNum, key)
	Serialize(row, leafValue(page, cursor.CellNum))
	setLeafNumCells(page, numCells+1)

	return ExecuteSuccess, nil
}

// leafSplitAndInsert redistributes the overflowed leaf's 14 logical cells
// (13 existing plus the new one) across old and new leaves, 7 left / 7
// right, and links new into the sibling chain. If the overflowed leaf was
// the root, a new root is promoted; otherwise nothing is changed and
// ExecuteTableFull is returned.
func (t *Table) leafSplitAndInsert(cursor *Cursor, key uint32, row Row) (ExecuteResult, error) {
	oldPageNum := cursor.PageNum
	oldPage, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return ExecuteFailure, err
	}

	if !isNodeRoot(oldPage) {
		// Splitting a non-root leaf requires updating the parent's
		// separator keys and possibly splitting the parent in turn;
		// that path is explicitly out of scope (only one level of
		// internal node is reachable). Report table-full rather than
		// guess at the algorithm.
		return ExecuteTableFull, nil
	}

	newPageNum := t.Pager.GetUnusedPageNum()
	newPage, err := t.Pager.GetPage(newPageNum)
	if err != nil {
		return ExecuteFailure, err
	}
	initializeLeafNode(newPage)
	setLeafNextLeaf(newPage, leafNextLeaf(oldPage))
	setLeafNextLeaf(oldPage, newPageNum)

	const total = LeafNodeMaxCells + 1 // 14 logical positions

	for i := int32(total - 1); i >= 0; i-- {
		var destPage *Page
		var destIdx uint32
		if uint32(i) >= LeafNodeLeftSplitCount {
			destPage = newPage
			destIdx = uint32(i) - LeafNodeLeftSplitCount
		} else {
			destPage = oldPage
			destIdx = uint32(i)
		}

		if uint32(i) == cursor.CellNum {
			setLeafKey(destPage, destIdx, key)
			Serialize(row, leafValue(destPage, destIdx))
		} else if uint32(i) > cursor.CellNum {
			copyLeafCellFrom(oldPage, uint32(i)-1, destPage, destIdx)
		} else {
			copyLeafCellFrom(oldPage, uint32(i), destPage, destIdx)
		}
	}

	setLeafNumCells(oldPage, LeafNodeLeftSplitCount)
	setLeafNumCells(newPage, LeafNodeRightSplitCount)

	if err := t.createNewRoot(newPageNum); err != nil {
		return ExecuteFailure, err
	}

	return ExecuteSuccess, nil
}

// copyLeafCellFrom copies cell srcIdx of src (read before any overwrite
// happens, per the caller's high-to-low iteration order) into cell dstIdx
// of dst. src and dst may be the same page.
func copyLeafCellFrom(src *Page, srcIdx uint32, dst *Page, dstIdx uint32) {
	var tmp [LeafNodeCellSize]byte
	copy(tmp[:], leafCell(src, srcIdx))
	copy(leafCell(dst, dstIdx), tmp[:])
}

// createNewRoot promotes a fresh internal node as the new root after the
// old root (a leaf) has split: the old root's full page is copied into a
// new left-child page, and page 0 is re-initialized as a one-key internal
// node pointing at the copied left child and the new right child.
func (t *Table) createNewRoot(rightChildPageNum uint32) error {
	root, err := t.Pager.GetPage(t.RootPageNum)
	if err != nil {
		return err
	}

	leftChildPageNum := t.Pager.GetUnusedPageNum()
	leftChild, err := t.Pager.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	*leftChild = *root
	setNodeRoot(leftChild, false)
	setNodeParent(leftChild, t.RootPageNum)

	rightChild, err := t.Pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}
	setNodeParent(rightChild, t.RootPageNum)

	initializeInternalNode(root)
	setNodeRoot(root, true)
	setInternalNumKeys(root, 1)
	setInternalChild(root, 0, leftChildPageNum)
	setInternalKey(root, 0, getNodeMaxKey(leftChild))
	setInternalRightChild(root, rightChildPageNum)

	return nil
}

// ScanStart returns a cursor at the leftmost cell of the leftmost leaf, the
// starting point for a full in-order scan.
func (t *Table) ScanStart() (*Cursor, error) {
	return t.Find(0)
}

// Advance moves the cursor to the next cell in key order, following
// next_leaf across leaf boundaries.
func (c *Cursor) Advance() error {
	page, err := c.table.Pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}

	c.CellNum++
	if c.CellNum < leafNumCells(page) {
		return nil
	}

	next := leafNextLeaf(page)
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	c.PageNum = next
	c.CellNum = 0
	return nil
}

// Value returns the raw row bytes the cursor currently points to.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.table.Pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	return leafValue(page, c.CellNum), nil
}

// Row returns the deserialized row the cursor currently points to.
func (c *Cursor) Row() (Row, error) {
	raw, err := c.Value()
	if err != nil {
		return Row{}, err
	}
	return Deserialize(raw), nil
}

func init() {
	// Guard the constant arithmetic in constants.go at package init time:
	// a miscomputed layout would corrupt every page silently otherwise.
	if LeafNodeMaxCells != 13 {
		log.Fatalf("table: LeafNodeMaxCells = %d, want 13 (layout constants are wrong)", LeafNodeMaxCells)
	}
}
