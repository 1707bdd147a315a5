package disk

import (
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/geometry"
)

// blockReader returns the payload of one LBA of a source image.
type blockReader func(lba int) ([]byte, error)

func unsupported(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedConversion, reason)
}

// Convert builds a new image of format to from src.
func Convert(src Image, to Format) (Image, error) {
	switch to {
	case FormatLogical:
		img, err := LogicalFrom(src)
		if err != nil {
			return nil, err
		}
		return img, nil
	case FormatPhysical:
		img, err := PhysicalFrom(src)
		if err != nil {
			return nil, err
		}
		return img, nil
	case FormatArchival:
		img, err := ArchivalFrom(src)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	return nil, unsupported("unknown format")
}

func LogicalFrom(src Image) (*Logical, error) {
	switch src := src.(type) {
	case *Logical:
		return nil, unsupported("identical format")
	case *Physical:
		return logicalFromPhysical(src)
	case *Archival:
		return logicalFromArchival(src)
	}
	return nil, unsupported("unknown format")
}

func PhysicalFrom(src Image) (*Physical, error) {
	switch src := src.(type) {
	case *Physical:
		return nil, unsupported("identical format")
	case *Logical:
		return physicalFromLogical(src)
	case *Archival:
		return physicalFromArchival(src)
	}
	return nil, unsupported("unknown format")
}

func ArchivalFrom(src Image) (*Archival, error) {
	switch src := src.(type) {
	case *Archival:
		return nil, unsupported("identical format")
	case *Logical:
		return archivalFromLogical(src)
	case *Physical:
		return archivalFromPhysical(src)
	}
	return nil, unsupported("unknown format")
}

func logicalFromPhysical(src *Physical) (*Logical, error) {
	dst := &Logical{header: src.derive(LogicalSize)}
	if err := copyBlocks(dst, src.LBA, 0, geometry.LBACount-1); err != nil {
		return nil, err
	}
	return dst, nil
}

// logicalFromArchival restores the retail header fields while expanding the
// single system record back into redundant blocks.
func logicalFromArchival(src *Archival) (*Logical, error) {
	dst := &Logical{header: src.derive(LogicalSize)}
	if err := copyBlocks(dst, restoredBlocks(src), 0, geometry.LBACount-1); err != nil {
		return nil, err
	}
	return dst, nil
}

func physicalFromLogical(src *Logical) (*Physical, error) {
	dst := &Physical{header: src.derive(PhysicalSize)}
	if err := copyBlocks(dst, src.LBA, 0, geometry.LBACount-1); err != nil {
		return nil, err
	}
	return dst, nil
}

func physicalFromArchival(src *Archival) (*Physical, error) {
	dst := &Physical{header: src.derive(PhysicalSize)}
	if err := copyBlocks(dst, restoredBlocks(src), 0, geometry.LBACount-1); err != nil {
		return nil, err
	}
	return dst, nil
}

func archivalFromLogical(src *Logical) (*Archival, error) {
	return archivalFrom(&src.header, src.LBA)
}

func archivalFromPhysical(src *Physical) (*Archival, error) {
	return archivalFrom(&src.header, src.LBA)
}

// archivalFrom keeps only the allocated ROM and RAM areas of a full-disk
// source. Bounds that do not fit the disk type are replaced by full-disk
// defaults.
func archivalFrom(src *header, read blockReader) (*Archival, error) {
	sys := src.sys.ForArchive()
	dst, err := newArchival(sys, src.id, src.dev)
	if err != nil {
		return nil, err
	}

	first := geometry.SystemLBACount
	if err := copyBlocks(dst, read, first, first+int(sys.ROMEndLBA)); err != nil {
		return nil, err
	}
	if sys.HasRAM() {
		if err := copyBlocks(dst, read, first+int(sys.RAMStartLBA), first+int(sys.RAMEndLBA)); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func restoredBlocks(src *Archival) blockReader {
	return func(lba int) ([]byte, error) {
		return src.Block(lba, true)
	}
}

// copyBlocks copies LBAs first..last inclusive, in ascending order, from read
// into dst at dst's own offsets.
func copyBlocks(dst Image, read blockReader, first, last int) error {
	raw := dst.Bytes()
	t := dst.System().DiskType
	for lba := first; lba <= last; lba++ {
		pos, ok := dst.LBAOffset(lba)
		if !ok {
			return fmt.Errorf("lba %d has no place in %s image: %w", lba, dst.Format().Label(), geometry.ErrOutOfRange)
		}
		size := geometry.SizeOfLBA(t, lba)
		if pos+size > len(raw) {
			return fmt.Errorf("lba %d ends at %#x past %s image end: %w", lba, pos+size, dst.Format().Label(), geometry.ErrOutOfRange)
		}
		data, err := read(lba)
		if err != nil {
			return fmt.Errorf("read lba %d: %w", lba, err)
		}
		copy(raw[pos:pos+size], data)
	}
	return nil
}
