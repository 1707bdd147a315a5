package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/s0up4200/go-ddconv/internal/disk"
	"github.com/s0up4200/go-ddconv/internal/settings"
	"github.com/s0up4200/go-ddconv/internal/util"
)

// archivalImage builds the smallest valid archival image: disk type 6, a
// single ROM LBA and no RAM.
func archivalImage(t *testing.T) disk.Image {
	t.Helper()
	data := make([]byte, disk.ArchivalMinSize)
	data[0x05] = 6
	util.PutUint16(data, 0x06, 0x20)
	util.PutUint32(data, 0x1C, 0x80000400)
	util.PutUint16(data, 0xE0, 0)
	util.PutUint16(data, 0xE2, 0xFFFF)
	util.PutUint16(data, 0xE4, 0xFFFF)
	copy(data[0x100:], "NDXJ")
	copy(data[0x118:], "01")

	img, err := disk.LoadArchival(data)
	if err != nil {
		t.Fatalf("LoadArchival() error = %v", err)
	}
	return img
}

func TestReportName(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		template string
		want     string
	}{
		{name: "explicit path", path: "out.log", template: "DDInfo_{0}.txt", want: "out.log"},
		{name: "placeholder", template: "DDInfo_{0}.txt", want: "DDInfo_zelda.txt"},
		{name: "numbered placeholder", template: "{1}.ddinfo", want: "zelda.ddinfo"},
		{name: "unknown extension", template: "report_{0}.log", want: "report_zelda.log.txt"},
		{name: "stdout", template: "-", want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := settings.Default("")
			cfg.ReportFileName = tt.template
			if got := ReportName(tt.path, "zelda", cfg); got != tt.want {
				t.Fatalf("ReportName()=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestRenderReport_Archival(t *testing.T) {
	cfg := settings.Default(t.TempDir())
	cfg.IncludeZoneMap = true
	img := archivalImage(t)

	_, out, err := RenderReport("", "mini", img, cfg)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	for _, want := range []string{
		"Disk Format:    D64\n",
		"Disk Type:      6\n",
		"Region:         None\n",
		"Dump:           Development\n",
		"IPL Address:    0x80000400\n",
		"RAM Area:       None\n",
		"Stored LBAs:    11 of 4,316\n",
		"Game Code:      NDXJ\n",
		"Company:        01\n",
		"DEFECTS:\n\nNone\n",
		"ZONES:\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") < 40 {
		t.Fatalf("zone map looks truncated:\n%s", out)
	}
}

func TestRenderReport_NilImage(t *testing.T) {
	if _, _, err := RenderReport("", "x", nil, settings.Default("")); err == nil {
		t.Fatal("expected error for nil image")
	}
}

func TestWriteReport_BacksUpExisting(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "mini.txt")
	if err := os.WriteFile(outPath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := settings.Default(tmpDir)
	got, err := WriteReport(outPath, "mini", archivalImage(t), cfg)
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if got != outPath {
		t.Fatalf("WriteReport() path=%q want=%q", got, outPath)
	}

	backups, _ := filepath.Glob(outPath + ".*")
	if len(backups) != 1 {
		t.Fatalf("backups=%q want one", backups)
	}
	old, _ := os.ReadFile(backups[0])
	if string(old) != "old" {
		t.Fatalf("backup content=%q", old)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "Disk Name:      mini\n") {
		t.Fatalf("unexpected report head: %q", string(data[:min(len(data), 40)]))
	}
}

func TestWriteReport_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "mini.txt")
	if err := os.WriteFile(outPath, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := settings.Default(tmpDir)
	cfg.Force = true
	if _, err := WriteReport(outPath, "mini", archivalImage(t), cfg); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if backups, _ := filepath.Glob(outPath + ".*"); len(backups) != 0 {
		t.Fatalf("unexpected backups %q", backups)
	}
}
