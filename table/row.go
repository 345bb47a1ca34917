package table

import (
	"bytes"
	"encoding/binary"
)

// Row is the fixed-layout record this engine stores: a u32 id and two
// NUL-padded text fields. Parsing-side constraints (id range, field
// lengths) are enforced by the command dispatcher, not here; Serialize and
// Deserialize do no validation and assume a well-formed Row.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Serialize writes row into dst at the well-known offsets. dst must be at
// least RowSize bytes; a width mismatch is a programming error.
func Serialize(row Row, dst []byte) {
	binary.LittleEndian.PutUint32(dst[IDOffset:IDOffset+IDSize], row.ID)

	usernameField := dst[UsernameOffset : UsernameOffset+UsernameSize]
	for i := range usernameField {
		usernameField[i] = 0
	}
	copy(usernameField, row.Username)

	emailField := dst[EmailOffset : EmailOffset+EmailSize]
	for i := range emailField {
		emailField[i] = 0
	}
	copy(emailField, row.Email)
}

// Deserialize reads a Row out of src at the well-known offsets. src must be
// at least RowSize bytes.
func Deserialize(src []byte) Row {
	id := binary.LittleEndian.Uint32(src[IDOffset : IDOffset+IDSize])
	username := cString(src[UsernameOffset : UsernameOffset+UsernameSize])
	email := cString(src[EmailOffset : EmailOffset+EmailSize])
	return Row{ID: id, Username: username, Email: email}
}

// cString trims a NUL-padded fixed-width field down to its logical content.
func cString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}
