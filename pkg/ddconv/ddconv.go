package ddconv

import (
	"context"
	"errors"
	"time"

	"github.com/s0up4200/go-ddconv/internal/disk"
	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/report"
	internalsettings "github.com/s0up4200/go-ddconv/internal/settings"
	"github.com/s0up4200/go-ddconv/internal/sysdata"
)

// Stage represents a coarse progress stage for Convert and Inspect.
type Stage string

const (
	StageStarting        Stage = "starting"
	StageDetected        Stage = "detected"
	StageConverting      Stage = "converting"
	StageConverted       Stage = "converted"
	StageRenderingReport Stage = "rendering_report"
	StageDone            Stage = "done"
)

// Format names one of the three image layouts.
type Format = disk.Format

const (
	FormatUnknown = disk.FormatUnknown
	FormatNDD     = disk.FormatLogical
	FormatMAME    = disk.FormatPhysical
	FormatD64     = disk.FormatArchival
)

var (
	ErrOutOfRange            = geometry.ErrOutOfRange
	ErrInvalidSystemData     = sysdata.ErrInvalidSystemData
	ErrInvalidDefectInfo     = sysdata.ErrInvalidDefectInfo
	ErrSizeMismatch          = disk.ErrSizeMismatch
	ErrUnsupportedConversion = disk.ErrUnsupportedConversion
)

// ParseFormat accepts "ndd", "mame" or "d64".
func ParseFormat(name string) (Format, error) {
	return disk.ParseFormat(name)
}

// DetectFormat guesses the format of an image from its length.
func DetectFormat(size int) Format {
	return disk.Detect(size)
}

// ProgressEvent is emitted when Convert or Inspect transitions between phases.
type ProgressEvent struct {
	Stage      Stage
	Source     Format
	Target     Format
	DiskType   int
	Bytes      int
	Elapsed    time.Duration
	OccurredAt time.Time
}

// Settings are library-facing report controls.
type Settings struct {
	HumanSizes     bool
	IncludeDefects bool
	IncludeZoneMap bool
	ReportFileName string
}

// DefaultSettings returns library defaults equivalent to CLI defaults.
func DefaultSettings(reportBaseDir string) Settings {
	return fromInternalSettings(internalsettings.Default(reportBaseDir))
}

// Options configure one Convert call.
type Options struct {
	Data       []byte
	Target     Format
	OnProgress func(ProgressEvent)
}

// InspectOptions configure one Inspect call.
type InspectOptions struct {
	Data       []byte
	Name       string
	ReportPath string
	Settings   Settings
	OnProgress func(ProgressEvent)
}

// DiskInfo contains the decoded system and identity fields of an image.
type DiskInfo struct {
	Format      Format
	SizeBytes   int
	DiskType    int
	Region      uint32
	Development bool
	GameCode    string
	CompanyCode string
	GameVersion uint8
	DiskNumber  uint8
	ROMEndLBA   uint16
	RAMStartLBA uint16
	RAMEndLBA   uint16
	HasRAM      bool
	Defects     int
}

// Result contains the converted image bytes.
type Result struct {
	Source DiskInfo
	Target DiskInfo
	Output []byte
}

// InspectResult contains decoded metadata plus rendered report content.
type InspectResult struct {
	Disk       DiskInfo
	Report     string
	ReportPath string
}

// Convert parses options.Data in whichever format its length names and
// converts it to options.Target. The API does not write files; callers own
// output persistence behavior.
func Convert(ctx context.Context, options Options) (Result, error) {
	if len(options.Data) == 0 {
		return Result{}, errors.New("image data is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageStarting,
		Target:     options.Target,
		Bytes:      len(options.Data),
		OccurredAt: time.Now(),
	})

	src, err := disk.Load(options.Data)
	if err != nil {
		return Result{}, err
	}
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageDetected,
		Source:     src.Format(),
		Target:     options.Target,
		DiskType:   src.System().DiskType,
		Bytes:      len(options.Data),
		OccurredAt: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	emit(options.OnProgress, ProgressEvent{
		Stage:      StageConverting,
		Source:     src.Format(),
		Target:     options.Target,
		DiskType:   src.System().DiskType,
		OccurredAt: time.Now(),
	})
	dst, err := disk.Convert(src, options.Target)
	if err != nil {
		return Result{}, err
	}
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageConverted,
		Source:     src.Format(),
		Target:     dst.Format(),
		DiskType:   dst.System().DiskType,
		Bytes:      len(dst.Bytes()),
		Elapsed:    time.Since(start),
		OccurredAt: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{
		Source: buildDiskInfo(src),
		Target: buildDiskInfo(dst),
		Output: dst.Bytes(),
	}
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageDone,
		Source:     src.Format(),
		Target:     dst.Format(),
		DiskType:   dst.System().DiskType,
		Bytes:      len(dst.Bytes()),
		Elapsed:    time.Since(start),
		OccurredAt: time.Now(),
	})
	return result, nil
}

// Inspect parses options.Data and renders the text report for it.
func Inspect(ctx context.Context, options InspectOptions) (InspectResult, error) {
	if len(options.Data) == 0 {
		return InspectResult{}, errors.New("image data is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return InspectResult{}, err
	}

	start := time.Now()
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageStarting,
		Bytes:      len(options.Data),
		OccurredAt: time.Now(),
	})

	img, err := disk.Load(options.Data)
	if err != nil {
		return InspectResult{}, err
	}
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageDetected,
		Source:     img.Format(),
		DiskType:   img.System().DiskType,
		Bytes:      len(options.Data),
		OccurredAt: time.Now(),
	})

	if err := ctx.Err(); err != nil {
		return InspectResult{}, err
	}

	emit(options.OnProgress, ProgressEvent{
		Stage:      StageRenderingReport,
		Source:     img.Format(),
		DiskType:   img.System().DiskType,
		OccurredAt: time.Now(),
	})
	reportPath, reportText, err := report.RenderReport(options.ReportPath, options.Name, img, toInternalSettings(options.Settings))
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		Disk:       buildDiskInfo(img),
		Report:     reportText,
		ReportPath: reportPath,
	}
	emit(options.OnProgress, ProgressEvent{
		Stage:      StageDone,
		Source:     img.Format(),
		DiskType:   img.System().DiskType,
		Elapsed:    time.Since(start),
		OccurredAt: time.Now(),
	})
	return result, nil
}

func emit(cb func(ProgressEvent), event ProgressEvent) {
	if cb != nil {
		cb(event)
	}
}

func buildDiskInfo(img disk.Image) DiskInfo {
	sys := img.System()
	id := img.DiskID()
	defects := 0
	for _, tracks := range sys.Defects {
		defects += len(tracks)
	}
	return DiskInfo{
		Format:      img.Format(),
		SizeBytes:   len(img.Bytes()),
		DiskType:    sys.DiskType,
		Region:      sys.Region,
		Development: img.Development(),
		GameCode:    id.InitialCode,
		CompanyCode: id.CompanyCode,
		GameVersion: id.GameVersion,
		DiskNumber:  id.DiskNumber,
		ROMEndLBA:   sys.ROMEndLBA,
		RAMStartLBA: sys.RAMStartLBA,
		RAMEndLBA:   sys.RAMEndLBA,
		HasRAM:      sys.HasRAM(),
		Defects:     defects,
	}
}

func fromInternalSettings(s internalsettings.Settings) Settings {
	return Settings{
		HumanSizes:     s.HumanSizes,
		IncludeDefects: s.IncludeDefects,
		IncludeZoneMap: s.IncludeZoneMap,
		ReportFileName: s.ReportFileName,
	}
}

func toInternalSettings(s Settings) internalsettings.Settings {
	return internalsettings.Settings{
		HumanSizes:     s.HumanSizes,
		IncludeDefects: s.IncludeDefects,
		IncludeZoneMap: s.IncludeZoneMap,
		ReportFileName: s.ReportFileName,
	}
}
