package sysdata

import (
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/util"
)

// DiskID is the disk identity block. It is read-only and copied verbatim
// between formats.
type DiskID struct {
	InitialCode    string
	GameVersion    uint8
	DiskNumber     uint8
	RAMUse         uint8
	DiskUse        uint8
	FactoryLine    [8]byte
	ProductionTime [8]byte
	CompanyCode    string
	FreeArea       [6]byte

	raw [Size]byte
}

func ParseDiskID(raw []byte) (DiskID, error) {
	if len(raw) < Size {
		return DiskID{}, fmt.Errorf("disk id block is %d bytes: %w", len(raw), ErrInvalidSystemData)
	}

	var id DiskID
	copy(id.raw[:], raw)

	pos := 0
	id.InitialCode = util.ReadString(raw, 4, &pos)
	id.GameVersion = util.ReadByte(raw, &pos)
	id.DiskNumber = util.ReadByte(raw, &pos)
	id.RAMUse = util.ReadByte(raw, &pos)
	id.DiskUse = util.ReadByte(raw, &pos)
	copy(id.FactoryLine[:], raw[0x08:0x10])
	copy(id.ProductionTime[:], raw[0x10:0x18])
	pos = 0x18
	id.CompanyCode = util.ReadString(raw, 2, &pos)
	copy(id.FreeArea[:], raw[0x1A:0x20])
	return id, nil
}

// Raw returns a copy of the original record bytes.
func (id DiskID) Raw() []byte {
	out := make([]byte, Size)
	copy(out, id.raw[:])
	return out
}
