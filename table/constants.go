package table

import "github.com/thatsLegit/sqlite-clone/pager"

// Row layout: a fixed-width (id uint32, username [33]byte, email [256]byte)
// record.
const (
	IDSize       = 4
	UsernameSize = 33  // 32 chars + trailing NUL
	EmailSize    = 256 // 255 chars + trailing NUL

	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	RowSize = IDOffset + IDSize + UsernameSize + EmailSize // 293

	// MaxUsernameLen and MaxEmailLen are the validation limits enforced by
	// the command dispatcher before a row ever reaches the engine.
	MaxUsernameLen = 32
	MaxEmailLen    = 255
)

// Common node header layout, shared by leaf and internal nodes.
const (
	NodeTypeSize   = 1
	NodeTypeOffset = 0

	IsRootSize   = 1
	IsRootOffset = NodeTypeOffset + NodeTypeSize

	ParentPointerSize   = 4
	ParentPointerOffset = IsRootOffset + IsRootSize

	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize // 6
)

// Leaf node header and cell layout.
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize

	LeafNodeNextLeafSize   = 4
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + LeafNodeNumCellsSize

	LeafNodeHeaderSize = CommonNodeHeaderSize + LeafNodeNumCellsSize + LeafNodeNextLeafSize // 14

	LeafNodeKeySize     = 4
	LeafNodeKeyOffset   = 0
	LeafNodeValueSize   = RowSize
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize

	LeafNodeCellSize = LeafNodeKeySize + LeafNodeValueSize // 297

	LeafNodeSpaceForCells = pager.PageSize - LeafNodeHeaderSize      // 4082
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize // 13

	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2 // 7
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount
)

// Internal node header and cell layout.
const (
	InternalNodeNumKeysSize   = 4
	InternalNodeNumKeysOffset = CommonNodeHeaderSize

	InternalNodeRightChildSize   = 4
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize

	InternalNodeHeaderSize = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize // 14

	InternalNodeKeySize   = 4
	InternalNodeChildSize = 4
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize // 8
)

// NodeType distinguishes leaf pages (which store rows) from internal pages
// (which store child pointers and separator keys).
type NodeType uint8

const (
	NodeLeaf NodeType = iota
	NodeInternal
)
