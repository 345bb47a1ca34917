package table

import (
	"encoding/binary"
	"log"
)

// This file implements typed accessors over a raw 4096-byte page buffer, in
// place, reinterpreting a page as a node without ever copying it into a
// separate language-native record type. Every read and write goes through
// encoding/binary directly against the live buffer, so the on-disk byte
// layout is always exactly what is on the page.

// Page is the raw buffer a node view is read from and written to. It is the
// same type as the pager's page buffer ([pager.PageSize]byte), so the
// buffers returned by pager.GetPage can be passed directly.
type Page = [4096]byte

// --- common header ---

func getNodeType(page *Page) NodeType {
	return NodeType(page[NodeTypeOffset])
}

func setNodeType(page *Page, t NodeType) {
	page[NodeTypeOffset] = byte(t)
}

func isNodeRoot(page *Page) bool {
	return page[IsRootOffset] != 0
}

func setNodeRoot(page *Page, isRoot bool) {
	if isRoot {
		page[IsRootOffset] = 1
	} else {
		page[IsRootOffset] = 0
	}
}

func nodeParent(page *Page) uint32 {
	return binary.LittleEndian.Uint32(page[ParentPointerOffset : ParentPointerOffset+ParentPointerSize])
}

func setNodeParent(page *Page, parent uint32) {
	binary.LittleEndian.PutUint32(page[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], parent)
}

// getNodeMaxKey returns the node's max key: the last cell's key for a leaf
// (the maximum key it holds), the last key in the cell array for an
// internal node (the rightmost child may hold larger keys, but its subtree
// maximum is only relevant one level up, where it never needs comparing
// against a sibling separator).
func getNodeMaxKey(page *Page) uint32 {
	if getNodeType(page) == NodeLeaf {
		n := leafNumCells(page)
		if n == 0 {
			return 0
		}
		return leafKey(page, n-1)
	}
	n := internalNumKeys(page)
	return internalKey(page, n-1)
}

// --- leaf node ---

func leafNumCells(page *Page) uint32 {
	return binary.LittleEndian.Uint32(page[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

func setLeafNumCells(page *Page, n uint32) {
	binary.LittleEndian.PutUint32(page[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], n)
}

func leafNextLeaf(page *Page) uint32 {
	return binary.LittleEndian.Uint32(page[LeafNodeNextLeafOffset : LeafNodeNextLeafOffset+LeafNodeNextLeafSize])
}

func setLeafNextLeaf(page *Page, next uint32) {
	binary.LittleEndian.PutUint32(page[LeafNodeNextLeafOffset:LeafNodeNextLeafOffset+LeafNodeNextLeafSize], next)
}

// leafCellOffset returns the byte offset of cell i within the page.
func leafCellOffset(i uint32) uint32 {
	return LeafNodeHeaderSize + i*LeafNodeCellSize
}

func leafCell(page *Page, i uint32) []byte {
	off := leafCellOffset(i)
	return page[off : off+LeafNodeCellSize]
}

func leafKey(page *Page, i uint32) uint32 {
	cell := leafCell(page, i)
	return binary.LittleEndian.Uint32(cell[LeafNodeKeyOffset : LeafNodeKeyOffset+LeafNodeKeySize])
}

func setLeafKey(page *Page, i uint32, key uint32) {
	cell := leafCell(page, i)
	binary.LittleEndian.PutUint32(cell[LeafNodeKeyOffset:LeafNodeKeyOffset+LeafNodeKeySize], key)
}

func leafValue(page *Page, i uint32) []byte {
	cell := leafCell(page, i)
	return cell[LeafNodeValueOffset : LeafNodeValueOffset+LeafNodeValueSize]
}

// initializeLeafNode zeroes a page and stamps it as an empty, non-root leaf
// with no sibling.
func initializeLeafNode(page *Page) {
	*page = Page{}
	setNodeType(page, NodeLeaf)
	setNodeRoot(page, false)
	setLeafNumCells(page, 0)
	setLeafNextLeaf(page, 0)
}

// --- internal node ---

func internalNumKeys(page *Page) uint32 {
	return binary.LittleEndian.Uint32(page[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+InternalNodeNumKeysSize])
}

func setInternalNumKeys(page *Page, n uint32) {
	binary.LittleEndian.PutUint32(page[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+InternalNodeNumKeysSize], n)
}

func internalRightChild(page *Page) uint32 {
	return binary.LittleEndian.Uint32(page[InternalNodeRightChildOffset : InternalNodeRightChildOffset+InternalNodeRightChildSize])
}

func setInternalRightChild(page *Page, child uint32) {
	binary.LittleEndian.PutUint32(page[InternalNodeRightChildOffset:InternalNodeRightChildOffset+InternalNodeRightChildSize], child)
}

func internalCellOffset(i uint32) uint32 {
	return InternalNodeHeaderSize + i*InternalNodeCellSize
}

func internalCell(page *Page, i uint32) []byte {
	off := internalCellOffset(i)
	return page[off : off+InternalNodeCellSize]
}

func internalChild(page *Page, i uint32) uint32 {
	numKeys := internalNumKeys(page)
	if i > numKeys {
		log.Fatalf("internal node: child index %d out of bounds (num_keys %d)", i, numKeys)
	}
	if i == numKeys {
		return internalRightChild(page)
	}
	cell := internalCell(page, i)
	return binary.LittleEndian.Uint32(cell[0:InternalNodeChildSize])
}

func setInternalChild(page *Page, i uint32, child uint32) {
	numKeys := internalNumKeys(page)
	if i == numKeys {
		setInternalRightChild(page, child)
		return
	}
	cell := internalCell(page, i)
	binary.LittleEndian.PutUint32(cell[0:InternalNodeChildSize], child)
}

func internalKey(page *Page, i uint32) uint32 {
	cell := internalCell(page, i)
	return binary.LittleEndian.Uint32(cell[InternalNodeChildSize : InternalNodeChildSize+InternalNodeKeySize])
}

func setInternalKey(page *Page, i uint32, key uint32) {
	cell := internalCell(page, i)
	binary.LittleEndian.PutUint32(cell[InternalNodeChildSize:InternalNodeChildSize+InternalNodeKeySize], key)
}

// initializeInternalNode zeroes a page and stamps it as an empty, non-root
// internal node.
func initializeInternalNode(page *Page) {
	*page = Page{}
	setNodeType(page, NodeInternal)
	setNodeRoot(page, false)
	setInternalNumKeys(page, 0)
}
