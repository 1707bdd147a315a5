// Package sysdata decodes the redundant 232-byte system and disk identity
// blocks stored at the start of every 64DD disk.
package sysdata

import (
	"errors"
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/util"
)

const (
	// Size of the system and disk identity records.
	Size = 0xE8

	RetailSectorSize = 0xE8
	DevSectorSize    = 0xC0

	RegionJPN        = 0xE848D316
	RegionUSA        = 0x2263EE56
	RetailFormatType = 0x10

	MaxIPLLoadSize = 438
	IPLAddrMin     = 0x80000000
	IPLAddrMax     = 0x80800000
	NoRAM          = 0xFFFF
)

const (
	offRegion      = 0x00
	offFormatType  = 0x04
	offDiskType    = 0x05
	offIPLSize     = 0x06
	offDefectTable = 0x08
	offPadding32   = 0x18
	offIPLAddr     = 0x1C
	offDefectData  = 0x20
	offROMEnd      = 0xE0
	offRAMStart    = 0xE2
	offRAMEnd      = 0xE4
	offPadding16   = 0xE6
)

var (
	ErrInvalidSystemData = errors.New("invalid system data")
	ErrInvalidDefectInfo = errors.New("invalid defect info")
)

// System is the decoded disk system area.
type System struct {
	Region      uint32
	FormatType  uint8
	DiskType    int
	IPLLoadSize uint16
	IPLLoadAddr uint32
	ROMEndLBA   uint16
	RAMStartLBA uint16
	RAMEndLBA   uint16
	Defects     geometry.DefectTable
}

// ParseSystem decodes the first Size bytes of raw.
func ParseSystem(raw []byte) (System, error) {
	if len(raw) < Size {
		return System{}, fmt.Errorf("system block is %d bytes: %w", len(raw), ErrInvalidSystemData)
	}
	raw = raw[:Size]

	defects, err := parseDefects(raw)
	if err != nil {
		return System{}, err
	}

	var s System
	pos := offRegion
	s.Region = util.ReadUint32(raw, &pos)
	s.FormatType = raw[offFormatType]
	s.DiskType = int(raw[offDiskType]) - int(raw[offFormatType])
	pos = offIPLSize
	s.IPLLoadSize = util.ReadUint16(raw, &pos)
	pos = offIPLAddr
	s.IPLLoadAddr = util.ReadUint32(raw, &pos)
	pos = offROMEnd
	s.ROMEndLBA = util.ReadUint16(raw, &pos)
	s.RAMStartLBA = util.ReadUint16(raw, &pos)
	s.RAMEndLBA = util.ReadUint16(raw, &pos)
	s.Defects = defects
	return s, nil
}

// parseDefects splits the defect data area using the cumulative end offsets
// at 0x08. An all-zero offset table means no defects were recorded.
func parseDefects(raw []byte) (geometry.DefectTable, error) {
	var table geometry.DefectTable
	ends := raw[offDefectTable : offDefectTable+geometry.ZoneCount]

	allZero := true
	for _, e := range ends {
		if e != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return table, nil
	}

	for i := 1; i < len(ends); i++ {
		if ends[i-1] >= ends[i] {
			return table, fmt.Errorf("defect offset %d (%d) not above %d: %w", i, ends[i], ends[i-1], ErrInvalidDefectInfo)
		}
	}

	start := 0
	for zone, end := range ends {
		lo := min(offDefectData+start, len(raw))
		hi := min(offDefectData+int(end), len(raw))
		tracks := append([]uint8(nil), raw[lo:hi]...)
		for i := 1; i < len(tracks); i++ {
			if tracks[i-1] >= tracks[i] {
				return table, fmt.Errorf("defect tracks of zone %d not increasing: %w", zone, ErrInvalidDefectInfo)
			}
		}
		table[zone] = tracks
		start = int(end)
	}
	return table, nil
}

// Validate checks the header fields. Region and format type are not stored in
// archival images and are skipped when archival is set.
func (s System) Validate(archival bool) error {
	if !archival {
		if s.Region != RegionJPN && s.Region != RegionUSA && s.Region != 0 {
			return fmt.Errorf("unknown region %#08x: %w", s.Region, ErrInvalidSystemData)
		}
		if s.FormatType != RetailFormatType {
			return fmt.Errorf("format type %#02x: %w", s.FormatType, ErrInvalidSystemData)
		}
	}
	if !geometry.ValidDiskType(s.DiskType) {
		return fmt.Errorf("disk type %d: %w", s.DiskType, ErrInvalidSystemData)
	}
	if s.IPLLoadSize > MaxIPLLoadSize {
		return fmt.Errorf("ipl load size %d: %w", s.IPLLoadSize, ErrInvalidSystemData)
	}
	if s.IPLLoadAddr < IPLAddrMin || s.IPLLoadAddr >= IPLAddrMax {
		return fmt.Errorf("ipl load address %#08x: %w", s.IPLLoadAddr, ErrInvalidSystemData)
	}
	return nil
}

func (s System) HasRAM() bool {
	return !(s.RAMStartLBA == NoRAM && s.RAMEndLBA == NoRAM)
}

// LBARangeValid reports whether the ROM and RAM bounds fit the disk type.
// Bounds are relative to the end of the system area.
func (s System) LBARangeValid() bool {
	if !geometry.ValidDiskType(s.DiskType) {
		return false
	}
	ramStart := geometry.RAMStartLBA[s.DiskType]
	if int(s.ROMEndLBA)+geometry.SystemLBACount >= ramStart {
		return false
	}
	if !s.HasRAM() {
		return true
	}
	for _, lba := range []uint16{s.RAMStartLBA, s.RAMEndLBA} {
		abs := int(lba) + geometry.SystemLBACount
		if abs < ramStart || abs > geometry.LBACount {
			return false
		}
	}
	return true
}

// ForArchive returns a copy of s prepared for the archival layout: region and
// format type cleared, defect lists dropped, and default full-disk ROM/RAM
// bounds when the recorded ones do not fit the disk type.
func (s System) ForArchive() System {
	out := s
	out.Region = 0
	out.FormatType = 0
	out.Defects = geometry.DefectTable{}

	if !out.LBARangeValid() && geometry.ValidDiskType(out.DiskType) {
		ramStart := geometry.RAMStartLBA[out.DiskType] - geometry.SystemLBACount
		out.ROMEndLBA = uint16(ramStart - 1)
		if out.DiskType == geometry.DiskTypeCount-1 {
			out.RAMStartLBA = NoRAM
			out.RAMEndLBA = NoRAM
		} else {
			out.RAMStartLBA = uint16(ramStart)
			out.RAMEndLBA = uint16(geometry.LBACount - geometry.SystemLBACount - 1)
		}
	}
	return out
}

// ROMBytes is the payload size of the allocated ROM area.
func (s System) ROMBytes() (int, error) {
	return geometry.ByteRange(s.DiskType, geometry.SystemLBACount, int(s.ROMEndLBA)+1)
}

// RAMBytes is the payload size of the allocated RAM area, zero if absent or
// if the end bound lies before the start.
func (s System) RAMBytes() (int, error) {
	if !s.HasRAM() || s.RAMStartLBA > s.RAMEndLBA {
		return 0, nil
	}
	return geometry.ByteRange(s.DiskType, geometry.SystemLBACount+int(s.RAMStartLBA), int(s.RAMEndLBA)-int(s.RAMStartLBA)+1)
}

// Serialize encodes s into a fresh Size byte record. Non-archival records get
// the unused padding fields set to all ones; defect lists are only written
// when keepDefects is set and archival is not.
func (s System) Serialize(keepDefects, archival bool) []byte {
	raw := make([]byte, Size)

	util.PutUint32(raw, offRegion, s.Region)
	raw[offFormatType] = s.FormatType
	raw[offDiskType] = s.FormatType + uint8(s.DiskType)
	util.PutUint16(raw, offIPLSize, s.IPLLoadSize)
	util.PutUint32(raw, offIPLAddr, s.IPLLoadAddr)
	util.PutUint16(raw, offROMEnd, s.ROMEndLBA)
	util.PutUint16(raw, offRAMStart, s.RAMStartLBA)
	util.PutUint16(raw, offRAMEnd, s.RAMEndLBA)

	if !archival {
		util.PutUint32(raw, offPadding32, 0xFFFFFFFF)
		util.PutUint16(raw, offPadding16, 0xFFFF)
	}

	if keepDefects && !archival {
		n := 0
		for zone, tracks := range s.Defects {
			for _, track := range tracks {
				if offDefectData+n < offROMEnd {
					raw[offDefectData+n] = track
				}
				n++
			}
			raw[offDefectTable+zone] = uint8(n)
		}
	}
	return raw
}
