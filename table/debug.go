package table

import (
	"fmt"
	"io"
	"strings"
)

// PrintConstants writes the compile-time layout figures used by
// integration tests, one per line.
func PrintConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafNodeMaxCells)
}

// PrintTree recursively renders the subtree rooted at pageNum, indented two
// spaces per depth level.
func (t *Table) PrintTree(w io.Writer, pageNum uint32, depth int) error {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)

	switch getNodeType(page) {
	case NodeLeaf:
		numCells := leafNumCells(page)
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s  - %d\n", indent, leafKey(page, i))
		}

	case NodeInternal:
		numKeys := internalNumKeys(page)
		fmt.Fprintf(w, "%s- internal (size %d)\n", indent, numKeys)
		for i := uint32(0); i < numKeys; i++ {
			child := internalChild(page, i)
			if err := t.PrintTree(w, child, depth+1); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s  - key %d\n", indent, internalKey(page, i))
		}
		if err := t.PrintTree(w, internalRightChild(page), depth+1); err != nil {
			return err
		}
	}

	return nil
}
