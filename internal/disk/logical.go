package disk

import (
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/geometry"
)

// Logical is a contiguous dump: LBA n starts right after LBA n-1.
type Logical struct {
	header
}

func LoadLogical(data []byte) (*Logical, error) {
	if len(data) != LogicalSize {
		return nil, fmt.Errorf("ndd image is %d bytes, want %d: %w", len(data), LogicalSize, ErrSizeMismatch)
	}
	h, err := locateHeader(data, logicalLayout)
	if err != nil {
		return nil, err
	}
	return &Logical{header: h}, nil
}

func (l *Logical) Format() Format { return FormatLogical }

func (l *Logical) LBAOffset(lba int) (int, bool) {
	if checkLBA(lba) != nil {
		return 0, false
	}
	return geometry.LogicalOffset(l.sys.DiskType, lba), true
}

func (l *Logical) LBA(lba int) ([]byte, error) {
	if err := checkLBA(lba); err != nil {
		return nil, err
	}
	off, _ := l.LBAOffset(lba)
	return l.raw[off : off+geometry.SizeOfLBA(l.sys.DiskType, lba)], nil
}
