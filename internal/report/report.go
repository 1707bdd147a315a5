package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/s0up4200/go-ddconv/internal/disk"
	"github.com/s0up4200/go-ddconv/internal/geometry"
	"github.com/s0up4200/go-ddconv/internal/settings"
	"github.com/s0up4200/go-ddconv/internal/sysdata"
	"github.com/s0up4200/go-ddconv/internal/util"
)

const productVersion = "1.0.0"

var placeholderRE = regexp.MustCompile(`\{\d+\}`)

// ReportName resolves the report path for a disk called name. An explicit
// path wins over the settings template.
func ReportName(path, name string, settings settings.Settings) string {
	if path != "" {
		return path
	}
	reportName := settings.ReportFileName
	if strings.Contains(reportName, "{0}") {
		reportName = strings.ReplaceAll(reportName, "{0}", name)
	} else if placeholderRE.MatchString(reportName) {
		reportName = placeholderRE.ReplaceAllString(reportName, name)
	}

	if reportName != "-" {
		ext := filepath.Ext(reportName)
		if ext != ".txt" && ext != ".ddinfo" {
			reportName += ".txt"
		}
	}
	return reportName
}

// RenderReport builds the report text without touching the filesystem.
func RenderReport(path, name string, img disk.Image, settings settings.Settings) (string, string, error) {
	if img == nil {
		return "", "", fmt.Errorf("no disk image to report on")
	}
	reportName := ReportName(path, name, settings)

	var b strings.Builder
	sys := img.System()
	id := img.DiskID()
	size := len(img.Bytes())

	fmt.Fprintf(&b, "%-16s%s\n", "Disk Name:", name)
	fmt.Fprintf(&b, "%-16s%s\n", "Disk Format:", img.Format().Label())
	fmt.Fprintf(&b, "%-16s%s bytes", "Disk Size:", util.FormatNumber(int64(size)))
	if settings.HumanSizes {
		fmt.Fprintf(&b, " (%s)", util.FormatFileSize(float64(size), true))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-16s%d\n", "Disk Type:", sys.DiskType)
	fmt.Fprintf(&b, "%-16s%s\n", "Region:", regionName(sys.Region))
	fmt.Fprintf(&b, "%-16s%s\n", "Dump:", dumpKind(img.Development()))
	fmt.Fprintf(&b, "%-16s%d blocks\n", "IPL Size:", sys.IPLLoadSize)
	fmt.Fprintf(&b, "%-16s%#08x\n", "IPL Address:", sys.IPLLoadAddr)
	fmt.Fprintf(&b, "%-16s%s\n", "ROM Area:", romArea(sys, settings))
	fmt.Fprintf(&b, "%-16s%s\n", "RAM Area:", ramArea(sys, settings))
	fmt.Fprintf(&b, "%-16s%s of %s\n", "Stored LBAs:", util.FormatNumber(int64(storedLBAs(img))), util.FormatNumber(geometry.LBACount))
	fmt.Fprintf(&b, "%-16s%s\n\n", "DDConv:", productVersion)

	b.WriteString("DISK ID:\n\n")
	fmt.Fprintf(&b, "%-16s%s\n", "Game Code:", printable(id.InitialCode))
	fmt.Fprintf(&b, "%-16s%d\n", "Version:", id.GameVersion)
	fmt.Fprintf(&b, "%-16s%d\n", "Disk Number:", id.DiskNumber)
	fmt.Fprintf(&b, "%-16s%d\n", "RAM Use:", id.RAMUse)
	fmt.Fprintf(&b, "%-16s%d\n", "Disk Use:", id.DiskUse)
	fmt.Fprintf(&b, "%-16s%s\n", "Company:", printable(id.CompanyCode))
	fmt.Fprintf(&b, "%-16s% X\n", "Factory Line:", id.FactoryLine[:])
	fmt.Fprintf(&b, "%-16s% X\n", "Production:", id.ProductionTime[:])

	if settings.IncludeDefects {
		b.WriteString("\nDEFECTS:\n\n")
		writeDefects(&b, sys.Defects)
	}
	if settings.IncludeZoneMap {
		b.WriteString("\nZONES:\n\n")
		writeZoneMap(&b, sys.DiskType)
	}
	return reportName, b.String(), nil
}

// WriteReport renders the report and writes it to its resolved path, or to
// stdout for "-". An existing file is moved aside unless Force is set.
func WriteReport(path, name string, img disk.Image, settings settings.Settings) (string, error) {
	reportName, output, err := RenderReport(path, name, img, settings)
	if err != nil {
		return "", err
	}
	if reportName == "-" {
		_, err := os.Stdout.WriteString(output)
		return reportName, err
	}
	if !settings.Force {
		BackupExisting(reportName)
	}
	return reportName, os.WriteFile(reportName, []byte(output), 0o644)
}

// BackupExisting renames an existing file to name.<unix time>.
func BackupExisting(name string) string {
	if _, err := os.Stat(name); err != nil {
		return ""
	}
	backup := fmt.Sprintf("%s.%d", name, time.Now().Unix())
	if err := os.Rename(name, backup); err != nil {
		return ""
	}
	return backup
}

func regionName(region uint32) string {
	switch region {
	case sysdata.RegionJPN:
		return "Japan"
	case sysdata.RegionUSA:
		return "USA"
	case 0:
		return "None"
	}
	return fmt.Sprintf("Unknown (%#08x)", region)
}

func dumpKind(dev bool) string {
	if dev {
		return "Development"
	}
	return "Retail"
}

func romArea(sys sysdata.System, settings settings.Settings) string {
	n, err := sys.ROMBytes()
	if err != nil {
		return "invalid"
	}
	first := geometry.SystemLBACount
	return fmt.Sprintf("LBA %d-%d (%s)", first, first+int(sys.ROMEndLBA), formatBytes(n, settings))
}

func ramArea(sys sysdata.System, settings settings.Settings) string {
	if !sys.HasRAM() {
		return "None"
	}
	n, err := sys.RAMBytes()
	if err != nil {
		return "invalid"
	}
	first := geometry.SystemLBACount
	return fmt.Sprintf("LBA %d-%d (%s)", first+int(sys.RAMStartLBA), first+int(sys.RAMEndLBA), formatBytes(n, settings))
}

func formatBytes(n int, settings settings.Settings) string {
	if settings.HumanSizes {
		return util.FormatFileSize(float64(n), true)
	}
	return util.FormatNumber(int64(n)) + " bytes"
}

func storedLBAs(img disk.Image) int {
	n := 0
	for lba := 0; lba < geometry.LBACount; lba++ {
		if _, ok := img.LBAOffset(lba); ok {
			n++
		}
	}
	return n
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E {
			return '.'
		}
		return r
	}, s)
}

func writeDefects(b *strings.Builder, defects geometry.DefectTable) {
	found := false
	for zone, tracks := range defects {
		if len(tracks) == 0 {
			continue
		}
		found = true
		list := make([]string, len(tracks))
		for i, track := range tracks {
			list[i] = fmt.Sprintf("%d", track)
		}
		fmt.Fprintf(b, "Zone %-11d%s\n", zone, strings.Join(list, ", "))
	}
	if !found {
		b.WriteString("None\n")
	}
}

func writeZoneMap(b *strings.Builder, diskType int) {
	fmt.Fprintf(b, "%-8s%-8s%-8s%-8s%-12s%-12s%-8s\n", "VZone", "PZone", "Head", "Track", "First LBA", "Last LBA", "Block")
	fmt.Fprintf(b, "%-8s%-8s%-8s%-8s%-12s%-12s%-8s\n", "-----", "-----", "----", "-----", "---------", "--------", "-----")
	for vzone := 0; vzone < geometry.ZoneCount; vzone++ {
		first := geometry.VZoneStartLBA(diskType, vzone)
		last := geometry.VZoneStartLBA(diskType, vzone+1) - 1
		phys, err := geometry.LBAToPhys(diskType, nil, first)
		if err != nil {
			continue
		}
		fmt.Fprintf(b, "%-8d%-8d%-8d%-8d%-12d%-12d%-8d\n",
			vzone,
			geometry.VZoneToPZone(diskType, vzone),
			phys.Head,
			phys.Track,
			first,
			last,
			geometry.SizeOfLBA(diskType, first),
		)
	}
}
