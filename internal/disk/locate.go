package disk

import (
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/buffer"
	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/sysdata"
)

// layout addresses blocks in a full-disk image.
type layout struct {
	// offset returns where lba is stored once the system area is known.
	offset func(diskType int, defects *geometry.DefectTable, lba int) (int, error)
	// systemOffsets lists where system lba may be stored before the disk
	// type and defect table are known, most likely first.
	systemOffsets func(lba int) []int
}

var logicalLayout = layout{
	offset: func(diskType int, _ *geometry.DefectTable, lba int) (int, error) {
		return geometry.LogicalOffset(diskType, lba), nil
	},
	systemOffsets: func(lba int) []int {
		return []int{geometry.LogicalOffset(0, lba)}
	},
}

var physicalLayout = layout{
	offset:        geometry.PhysicalOffset,
	systemOffsets: physicalSystemOffsets,
}

// physicalSystemOffsets walks lba outward through the first zone of head 0.
// Each defective track at or before it pushes the block one track further.
func physicalSystemOffsets(lba int) []int {
	phys, err := geometry.LBAToPhys(0, nil, lba)
	if err != nil {
		return nil
	}
	var offsets []int
	for ; phys.Track < geometry.BaseTrack[0][1]; phys.Track++ {
		offsets = append(offsets, phys.Offset())
	}
	return offsets
}

type candidateSet struct {
	lbas       []int
	sectorSize int
	dev        bool
}

var systemCandidates = []candidateSet{
	{lbas: geometry.SystemLBAsRetail[:], sectorSize: sysdata.RetailSectorSize},
	{lbas: geometry.SystemLBAsDev[:], sectorSize: sysdata.DevSectorSize, dev: true},
}

// locateHeader finds the system and identity records of a full-disk layout.
func locateHeader(data []byte, l layout) (header, error) {
	sys, dev, err := locateSystem(data, l)
	if err != nil {
		return header{}, err
	}
	id, err := locateDiskID(data, sys, l)
	if err != nil {
		return header{}, err
	}
	return header{sys: sys, id: id, dev: dev, raw: data}, nil
}

// locateSystem tries the retail copies first and falls back to the
// development copies. All system LBAs sit in the outermost zone of every
// disk type. A record read from a candidate address is accepted only if its
// own disk type and defects place the LBA at that same address.
func locateSystem(data []byte, l layout) (sysdata.System, bool, error) {
	size := geometry.SizeOfLBA(0, 0)
	for _, set := range systemCandidates {
		for _, lba := range set.lbas {
			for _, off := range l.systemOffsets(lba) {
				block, ok := blockAt(data, off, size)
				if !ok || !buffer.IsRepeated(block, set.sectorSize, geometry.SectorCount) {
					continue
				}
				sys, err := sysdata.ParseSystem(block)
				if err != nil {
					continue
				}
				if err := sys.Validate(false); err != nil {
					continue
				}
				if at, err := l.offset(sys.DiskType, &sys.Defects, lba); err != nil || at != off {
					continue
				}
				return sys, set.dev, nil
			}
		}
	}
	return sysdata.System{}, false, fmt.Errorf("no usable system area: %w", sysdata.ErrInvalidSystemData)
}

func locateDiskID(data []byte, sys sysdata.System, l layout) (sysdata.DiskID, error) {
	for _, lba := range geometry.DiskIDLBAs {
		off, err := l.offset(sys.DiskType, &sys.Defects, lba)
		if err != nil {
			continue
		}
		block, ok := blockAt(data, off, geometry.SizeOfLBA(sys.DiskType, lba))
		if !ok || !buffer.IsRepeated(block, geometry.SizeOfSector(sys.DiskType, lba), geometry.SectorCount) {
			continue
		}
		id, err := sysdata.ParseDiskID(block)
		if err != nil {
			continue
		}
		return id, nil
	}
	return sysdata.DiskID{}, fmt.Errorf("no usable disk id: %w", sysdata.ErrInvalidSystemData)
}

func blockAt(data []byte, off, size int) ([]byte, bool) {
	if off < 0 || off+size > len(data) {
		return nil, false
	}
	return data[off : off+size], true
}
