package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/s0up4200/go-ddconv/internal/geometry"
)

func TestParseDefects(t *testing.T) {
	table, err := parseDefects("0:0, 0:7,9:3")
	if err != nil {
		t.Fatalf("parseDefects() error = %v", err)
	}
	if len(table[0]) != 2 || table[0][1] != 7 || len(table[9]) != 1 {
		t.Fatalf("table=%v", table)
	}

	for _, bad := range []string{"3", "16:1", "0:300", "0:4,0:4"} {
		if _, err := parseDefects(bad); err == nil {
			t.Errorf("parseDefects(%q) err=nil", bad)
		}
	}
}

func TestPrintTable(t *testing.T) {
	var defects geometry.DefectTable
	defects[0] = []uint8{0}

	var out bytes.Buffer
	if err := printTable(&out, 0, &defects, 0, 1); err != nil {
		t.Fatalf("printTable() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "Sector") {
		t.Fatalf("header=%q", lines[0])
	}
	// LBA 0 moves to track 1 behind the defect; sectors are 232 bytes.
	if fields := strings.Fields(lines[1]); fields[4] != "1" || fields[7] != "232" || fields[9] != "0x9a10" {
		t.Fatalf("row=%q", lines[1])
	}
}

func TestPrintSpan(t *testing.T) {
	var out bytes.Buffer
	if err := printSpan(&out, 0, 24, 19721); err != nil {
		t.Fatalf("printSpan() error = %v", err)
	}
	want := "19721 bytes from LBA 24: 2 LBAs (24-25), 39440 bytes allocated\n"
	if out.String() != want {
		t.Fatalf("output=%q want %q", out.String(), want)
	}

	if err := printSpan(&out, 0, 4300, 0x3DEC800); err == nil {
		t.Fatal("printSpan past disk end err=nil")
	}
}
