package disk

import (
	"fmt"

	"github.com/s0up4200/go-ddconv/internal/geometry"
)

// Physical is a capture in head/track order, as read straight off the drive.
// Each zone of each head occupies a fixed region; two blocks per track.
type Physical struct {
	header
}

func LoadPhysical(data []byte) (*Physical, error) {
	if len(data) != PhysicalSize {
		return nil, fmt.Errorf("mame image is %d bytes, want %d: %w", len(data), PhysicalSize, ErrSizeMismatch)
	}
	h, err := locateHeader(data, physicalLayout)
	if err != nil {
		return nil, err
	}
	return &Physical{header: h}, nil
}

func (p *Physical) Format() Format { return FormatPhysical }

func (p *Physical) LBAOffset(lba int) (int, bool) {
	off, err := geometry.PhysicalOffset(p.sys.DiskType, &p.sys.Defects, lba)
	if err != nil {
		return 0, false
	}
	return off, true
}

func (p *Physical) LBA(lba int) ([]byte, error) {
	off, err := geometry.PhysicalOffset(p.sys.DiskType, &p.sys.Defects, lba)
	if err != nil {
		return nil, err
	}
	end := off + geometry.SizeOfLBA(p.sys.DiskType, lba)
	if end > len(p.raw) {
		return nil, fmt.Errorf("lba %d ends at %#x past image end: %w", lba, end, geometry.ErrOutOfRange)
	}
	return p.raw[off:end], nil
}
