package table

import "testing"

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	row := Row{ID: 7, Username: "alice", Email: "alice@example.com"}

	var buf [RowSize]byte
	Serialize(row, buf[:])

	got := Deserialize(buf[:])
	if got != row {
		t.Fatalf("Deserialize(Serialize(row)) = %+v, want %+v", got, row)
	}
}

func TestSerializeTruncatesOverlongFields(t *testing.T) {
	longUsername := make([]byte, 100)
	for i := range longUsername {
		longUsername[i] = 'x'
	}

	row := Row{ID: 1, Username: string(longUsername), Email: "a@b.com"}

	var buf [RowSize]byte
	Serialize(row, buf[:])

	// Serialize does no validation (that's the dispatcher's job); it just
	// writes into the fixed-width field and copy() silently truncates.
	got := Deserialize(buf[:])
	if len(got.Username) != UsernameSize {
		t.Fatalf("truncated username length = %d, want %d", len(got.Username), UsernameSize)
	}
}

func TestSerializeZeroesStaleBytes(t *testing.T) {
	var buf [RowSize]byte
	Serialize(Row{ID: 1, Username: "abcdefgh", Email: "a@b.com"}, buf[:])
	Serialize(Row{ID: 2, Username: "xy", Email: "c@d.com"}, buf[:])

	got := Deserialize(buf[:])
	if got.Username != "xy" {
		t.Fatalf("Username = %q, want %q (stale bytes not cleared)", got.Username, "xy")
	}
}
