// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
)

// PageID is the type of the page identifier.
type PageID int32

// InvalidPageID represents an invalid page id.
const InvalidPageID = PageID(-1)

// IsValid checks if id is a valid, allocated page id.
func (id PageID) IsValid() bool {
	return id != InvalidPageID
}

// Serialize casts the page id to its little-endian byte representation.
func (id PageID) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, id)
	return buf.Bytes()
}

// NewPageIDFromBytes decodes a page id from its little-endian byte
// representation.
func NewPageIDFromBytes(data []byte) (ret PageID) {
	binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &ret)
	return ret
}
