package disk

import (
	"fmt"
	"slices"

	"github.com/s0up4200/go-ddconv/internal/buffer"
	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/sysdata"
	"github.com/s0up4200/go-ddconv/internal/util"
)

// Archival is the compact master layout: one system record at 0x000, one
// identity record at 0x100, then the allocated ROM area and the allocated RAM
// area if the disk has one. Defect lists are not kept.
type Archival struct {
	header
	romBytes int
}

func LoadArchival(data []byte) (*Archival, error) {
	if len(data) < ArchivalHeaderSize {
		return nil, fmt.Errorf("d64 image is %d bytes: %w", len(data), ErrSizeMismatch)
	}
	sys, err := sysdata.ParseSystem(data[archivalSystemOffset:])
	if err != nil {
		return nil, err
	}
	if err := sys.Validate(true); err != nil {
		return nil, err
	}
	id, err := sysdata.ParseDiskID(data[archivalDiskIDOffset:])
	if err != nil {
		return nil, err
	}

	romBytes, size, err := archivalSize(sys)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("d64 image is %d bytes, system area describes %d: %w", len(data), size, ErrSizeMismatch)
	}

	return &Archival{
		header:   header{sys: sys, id: id, dev: true, raw: data},
		romBytes: romBytes,
	}, nil
}

// newArchival allocates an empty archival image for sys with its records
// written out.
func newArchival(sys sysdata.System, id sysdata.DiskID, dev bool) (*Archival, error) {
	romBytes, size, err := archivalSize(sys)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	copy(raw[archivalSystemOffset:], sys.Serialize(false, true))
	copy(raw[archivalDiskIDOffset:], id.Raw())
	return &Archival{
		header:   header{sys: sys, id: id, dev: dev, raw: raw},
		romBytes: romBytes,
	}, nil
}

func archivalSize(sys sysdata.System) (romBytes, total int, err error) {
	romBytes, err = sys.ROMBytes()
	if err != nil {
		return 0, 0, fmt.Errorf("rom area: %w", err)
	}
	ramBytes, err := sys.RAMBytes()
	if err != nil {
		return 0, 0, fmt.Errorf("ram area: %w", err)
	}
	return romBytes, ArchivalHeaderSize + romBytes + ramBytes, nil
}

func (a *Archival) Format() Format { return FormatArchival }

func isSystemLBA(lba int) bool {
	return slices.Contains(geometry.SystemLBAsRetail[:], lba) || slices.Contains(geometry.SystemLBAsDev[:], lba)
}

func isDiskIDLBA(lba int) bool {
	return slices.Contains(geometry.DiskIDLBAs[:], lba)
}

// LBAOffset returns 0x000 for every system LBA and 0x100 for every identity
// LBA since both are stored once.
func (a *Archival) LBAOffset(lba int) (int, bool) {
	if checkLBA(lba) != nil {
		return 0, false
	}
	switch {
	case isSystemLBA(lba):
		return archivalSystemOffset, true
	case isDiskIDLBA(lba):
		return archivalDiskIDOffset, true
	}

	t := a.sys.DiskType
	rel := lba - geometry.SystemLBACount
	if rel >= 0 && rel <= int(a.sys.ROMEndLBA) {
		return ArchivalHeaderSize + geometry.LogicalOffset(t, lba) - geometry.LogicalOffset(t, geometry.SystemLBACount), true
	}
	if a.sys.HasRAM() && rel >= int(a.sys.RAMStartLBA) && rel <= int(a.sys.RAMEndLBA) {
		ramStart := geometry.SystemLBACount + int(a.sys.RAMStartLBA)
		return ArchivalHeaderSize + a.romBytes + geometry.LogicalOffset(t, lba) - geometry.LogicalOffset(t, ramStart), true
	}
	return 0, false
}

func (a *Archival) LBA(lba int) ([]byte, error) {
	return a.Block(lba, false)
}

// Block returns the payload of lba. System and identity LBAs are rebuilt as
// 85 repeated sectors. With restoreHeaders the system sectors get back the
// retail header fields the archival record leaves out. LBAs outside the
// allocated areas read as zeros.
func (a *Archival) Block(lba int, restoreHeaders bool) ([]byte, error) {
	if err := checkLBA(lba); err != nil {
		return nil, err
	}
	t := a.sys.DiskType

	switch {
	case isSystemLBA(lba):
		secSize := a.SectorSize()
		sector := make([]byte, secSize)
		copy(sector, a.raw[archivalSystemOffset:archivalSystemOffset+secSize])
		if restoreHeaders {
			restoreSystemSector(sector, lba, a.dev)
		}
		return buffer.Repeat(sector, secSize, geometry.SectorCount, geometry.BlockSize[0]), nil
	case isDiskIDLBA(lba):
		secSize := geometry.SizeOfSector(t, lba)
		sector := a.raw[archivalDiskIDOffset : archivalDiskIDOffset+secSize]
		return buffer.Repeat(sector, secSize, geometry.SectorCount, geometry.SizeOfLBA(t, lba)), nil
	}

	size := geometry.SizeOfLBA(t, lba)
	off, ok := a.LBAOffset(lba)
	if !ok {
		return make([]byte, size), nil
	}
	return a.raw[off : off+size], nil
}

func restoreSystemSector(sector []byte, lba int, dev bool) {
	if slices.Contains(geometry.SystemLBAsRetail[:], lba) {
		util.PutUint32(sector, 0x00, sysdata.RegionJPN)
	}
	sector[0x04] = sysdata.RetailFormatType
	sector[0x05] += sysdata.RetailFormatType
	util.PutUint32(sector, 0x18, 0xFFFFFFFF)
	if !dev {
		util.PutUint16(sector, 0xE6, 0xFFFF)
	}
}
