// Package geometry maps 64DD logical block addresses onto zones, byte sizes,
// and physical head/track/block positions.
package geometry

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("out of range")

// DefectTable lists, per physical zone, the track offsets that were remapped
// to spare tracks during manufacturing. Entries within a zone increase.
type DefectTable [ZoneCount][]uint8

// PhysInfo is the physical location of one LBA.
type PhysInfo struct {
	Head  int
	Track int
	Block int
}

// Zone returns the disk zone the track lies in, offset by the head.
func (p PhysInfo) Zone() int {
	zone := 0
	for i, start := range BaseTrack[0] {
		if p.Track < start {
			break
		}
		zone = i
	}
	return zone + p.Head
}

func ValidDiskType(t int) bool {
	return t >= 0 && t < DiskTypeCount
}

// LBAToVZone returns the virtual zone of lba on disk type t.
func LBAToVZone(t, lba int) int {
	vzone := 0
	for i := ZoneCount - 1; i >= 0; i-- {
		if lba >= vzoneLBATbl[t][i] {
			break
		}
		vzone = i
	}
	return vzone
}

func VZoneToPZone(t, vzone int) int {
	return pzoneTbl[t][vzone]
}

func PZoneToDiskZone(pzone int) int {
	return diskZoneTbl[pzone]
}

// VZoneStartLBA returns the first LBA of a virtual zone.
func VZoneStartLBA(t, vzone int) int {
	if vzone == 0 {
		return 0
	}
	return vzoneLBATbl[t][vzone-1]
}

// SizeOfLBA returns the byte size of the block at lba.
func SizeOfLBA(t, lba int) int {
	return BlockSize[PZoneToDiskZone(VZoneToPZone(t, LBAToVZone(t, lba)))]
}

// SizeOfSector returns the byte size of one of the 85 sectors at lba.
func SizeOfSector(t, lba int) int {
	return SizeOfLBA(t, lba) / SectorCount
}

// LogicalOffset returns the byte size of LBAs [0, lba). lba may equal LBACount.
func LogicalOffset(t, lba int) int {
	return lbaOffsetTbl[t][lba]
}

// ByteRange returns the total byte size of n blocks starting at start.
func ByteRange(t, start, n int) (int, error) {
	if !ValidDiskType(t) {
		return 0, fmt.Errorf("disk type %d: %w", t, ErrOutOfRange)
	}
	if start < 0 || start >= LBACount || n < 0 || start+n > LBACount {
		return 0, fmt.Errorf("lba range %d+%d: %w", start, n, ErrOutOfRange)
	}
	return lbaOffsetTbl[t][start+n] - lbaOffsetTbl[t][start], nil
}

// LBACountForBytes returns the smallest number of blocks starting at start
// whose combined size reaches nBytes.
func LBACountForBytes(t, start, nBytes int) (int, error) {
	if !ValidDiskType(t) {
		return 0, fmt.Errorf("disk type %d: %w", t, ErrOutOfRange)
	}
	if start < 0 || start >= LBACount {
		return 0, fmt.Errorf("lba %d: %w", start, ErrOutOfRange)
	}
	if nBytes <= 0 {
		return 0, nil
	}
	for lba := start; lba < LBACount; lba++ {
		nBytes -= SizeOfLBA(t, lba)
		if nBytes <= 0 {
			return lba - start + 1, nil
		}
	}
	return 0, fmt.Errorf("%d bytes past lba %d: %w", nBytes, start, ErrOutOfRange)
}

// LBAToPhys resolves lba to its physical position, skipping the defective
// tracks recorded for its physical zone.
func LBAToPhys(t int, defects *DefectTable, lba int) (PhysInfo, error) {
	if !ValidDiskType(t) {
		return PhysInfo{}, fmt.Errorf("disk type %d: %w", t, ErrOutOfRange)
	}
	if lba < 0 || lba >= LBACount {
		return PhysInfo{}, fmt.Errorf("lba %d: %w", lba, ErrOutOfRange)
	}

	block := 1
	if lba&3 == 0 || lba&3 == 3 {
		block = 0
	}

	vzone := LBAToVZone(t, lba)
	pzone := VZoneToPZone(t, vzone)
	head := pzone / 8
	zone := pzone - 7*head

	track := (lba - VZoneStartLBA(t, vzone)) / 2
	if head == 1 {
		track = -track
	}
	track += BaseTrack[head][zone-head]

	if defects != nil {
		zoneStart := BaseTrack[0][zone-head]
		for _, d := range defects[pzone] {
			if zoneStart+int(d) > track {
				break
			}
			track++
		}
	}

	return PhysInfo{Head: head, Track: track, Block: block}, nil
}

// PhysicalOffset returns the byte offset of lba in a physical capture.
func PhysicalOffset(t int, defects *DefectTable, lba int) (int, error) {
	phys, err := LBAToPhys(t, defects, lba)
	if err != nil {
		return 0, err
	}
	return phys.Offset(), nil
}

// Offset returns the byte offset of the block at p in a physical capture.
func (p PhysInfo) Offset() int {
	zone := p.Zone()
	idx := zone - p.Head
	rel := p.Track - BaseTrack[0][idx]

	offset := physZoneOffset[idx+p.Head*8]
	offset += BlockSize[zone] * 2 * rel
	offset += p.Block * BlockSize[zone]
	return offset
}
