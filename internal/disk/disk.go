// Package disk implements the three 64DD image layouts and the conversions
// between them.
//
// A Logical image stores every LBA back to back in ascending order. A Physical
// image stores blocks where the drive heads find them, grouped by zone and
// head with defective tracks skipped. An Archival image keeps one copy of the
// system and identity records followed by the allocated ROM and RAM areas.
package disk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/sysdata"
)

const (
	LogicalSize  = 0x3DEC800
	PhysicalSize = 0x435B0C0

	ArchivalHeaderSize = 0x200
	ArchivalMinSize    = ArchivalHeaderSize + 0x4D08
	ArchivalMaxSize    = ArchivalHeaderSize + 0x3D78F40

	archivalSystemOffset = 0x000
	archivalDiskIDOffset = 0x100
)

var (
	ErrSizeMismatch          = errors.New("size mismatch")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
)

type Format int

const (
	FormatUnknown Format = iota
	FormatLogical
	FormatPhysical
	FormatArchival
)

// String returns the command line name of the format.
func (f Format) String() string {
	switch f {
	case FormatLogical:
		return "ndd"
	case FormatPhysical:
		return "mame"
	case FormatArchival:
		return "d64"
	default:
		return "unknown"
	}
}

func (f Format) Label() string {
	return strings.ToUpper(f.String())
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ndd":
		return FormatLogical, nil
	case "mame":
		return FormatPhysical, nil
	case "d64":
		return FormatArchival, nil
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", name)
}

// Detect guesses the format of an image from its length alone.
func Detect(size int) Format {
	switch {
	case size == LogicalSize:
		return FormatLogical
	case size == PhysicalSize:
		return FormatPhysical
	case size >= ArchivalMinSize && size <= ArchivalMaxSize:
		return FormatArchival
	}
	return FormatUnknown
}

// Image is one of *Logical, *Physical or *Archival.
type Image interface {
	Format() Format
	System() sysdata.System
	DiskID() sysdata.DiskID
	Development() bool

	// Bytes returns the image buffer. It is not copied.
	Bytes() []byte

	// LBA returns the payload of one block.
	LBA(lba int) ([]byte, error)

	// LBAOffset returns where lba is stored in Bytes, or false when the
	// layout does not store it.
	LBAOffset(lba int) (int, bool)

	image()
}

// Load parses data in whichever format its length names.
func Load(data []byte) (Image, error) {
	switch Detect(len(data)) {
	case FormatLogical:
		return LoadLogical(data)
	case FormatPhysical:
		return LoadPhysical(data)
	case FormatArchival:
		return LoadArchival(data)
	}
	return nil, fmt.Errorf("%d bytes is not a disk image: %w", len(data), ErrSizeMismatch)
}

// header holds what every layout carries besides its buffer layout.
type header struct {
	sys sysdata.System
	id  sysdata.DiskID
	dev bool
	raw []byte
}

func (h *header) System() sysdata.System { return h.sys }
func (h *header) DiskID() sysdata.DiskID { return h.id }
func (h *header) Development() bool      { return h.dev }
func (h *header) Bytes() []byte          { return h.raw }
func (h *header) image()                 {}

// SectorSize is the size of one redundant system sector.
func (h *header) SectorSize() int {
	if h.dev {
		return sysdata.DevSectorSize
	}
	return sysdata.RetailSectorSize
}

// derive starts a new image of size bytes carrying the same records.
func (h *header) derive(size int) header {
	return header{sys: h.sys, id: h.id, dev: h.dev, raw: make([]byte, size)}
}

func checkLBA(lba int) error {
	if lba < 0 || lba >= geometry.LBACount {
		return fmt.Errorf("lba %d: %w", lba, geometry.ErrOutOfRange)
	}
	return nil
}
