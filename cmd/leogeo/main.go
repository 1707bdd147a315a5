package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/s0up4200/go-ddconv/internal/geometry"
)

func main() {
	diskType := flag.Int("type", 0, "disk type (0-6)")
	lba := flag.Int("lba", -1, "single LBA to print; all LBAs when negative")
	defectList := flag.String("defects", "", "defect tracks as zone:track[,zone:track...]")
	nBytes := flag.Int("bytes", 0, "print how many LBAs from -lba (or 0) hold this many bytes")
	flag.Parse()

	if !geometry.ValidDiskType(*diskType) {
		log.Fatalf("-type %d out of range", *diskType)
	}
	defects, err := parseDefects(*defectList)
	if err != nil {
		log.Fatalf("-defects: %v", err)
	}

	if *nBytes > 0 {
		if err := printSpan(os.Stdout, *diskType, max(*lba, 0), *nBytes); err != nil {
			log.Fatal(err)
		}
		return
	}

	first, last := 0, geometry.LBACount-1
	if *lba >= 0 {
		first, last = *lba, *lba
	}
	if err := printTable(os.Stdout, *diskType, &defects, first, last); err != nil {
		log.Fatal(err)
	}
}

func printTable(w io.Writer, diskType int, defects *geometry.DefectTable, first, last int) error {
	fmt.Fprintf(w, "%-6s%-6s%-6s%-5s%-6s%-6s%-6s%-7s%-11s%-11s\n", "LBA", "VZone", "PZone", "Head", "Track", "Block", "Size", "Sector", "Logical", "Physical")
	for n := first; n <= last; n++ {
		phys, err := geometry.LBAToPhys(diskType, defects, n)
		if err != nil {
			return fmt.Errorf("LBAToPhys(%d): %w", n, err)
		}
		vzone := geometry.LBAToVZone(diskType, n)
		fmt.Fprintf(w, "%-6d%-6d%-6d%-5d%-6d%-6d%-6d%-7d%#-11x%#-11x\n",
			n, vzone, geometry.VZoneToPZone(diskType, vzone),
			phys.Head, phys.Track, phys.Block,
			geometry.SizeOfLBA(diskType, n), geometry.SizeOfSector(diskType, n),
			geometry.LogicalOffset(diskType, n), phys.Offset())
	}
	return nil
}

// printSpan prints the LBA range needed to store nBytes from start on.
func printSpan(w io.Writer, diskType, start, nBytes int) error {
	n, err := geometry.LBACountForBytes(diskType, start, nBytes)
	if err != nil {
		return fmt.Errorf("%d bytes from lba %d: %w", nBytes, start, err)
	}
	size, err := geometry.ByteRange(diskType, start, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d bytes from LBA %d: %d LBAs (%d-%d), %d bytes allocated\n", nBytes, start, n, start, start+n-1, size)
	return nil
}

func parseDefects(s string) (geometry.DefectTable, error) {
	var table geometry.DefectTable
	if s == "" {
		return table, nil
	}
	for _, item := range strings.Split(s, ",") {
		zoneStr, trackStr, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok {
			return table, fmt.Errorf("%q is not zone:track", item)
		}
		zone, err := strconv.Atoi(zoneStr)
		if err != nil || zone < 0 || zone >= geometry.ZoneCount {
			return table, fmt.Errorf("zone %q out of range", zoneStr)
		}
		track, err := strconv.ParseUint(trackStr, 10, 8)
		if err != nil {
			return table, fmt.Errorf("track %q: %v", trackStr, err)
		}
		if n := len(table[zone]); n > 0 && table[zone][n-1] >= uint8(track) {
			return table, fmt.Errorf("zone %d tracks must increase", zone)
		}
		table[zone] = append(table[zone], uint8(track))
	}
	return table, nil
}
