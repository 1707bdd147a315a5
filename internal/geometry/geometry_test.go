package geometry

import (
	"errors"
	"sort"
	"testing"
)

func TestSizeOfLBA_MatchesZoneLookup(t *testing.T) {
	for dt := 0; dt < DiskTypeCount; dt++ {
		for lba := 0; lba < LBACount; lba++ {
			vzone := LBAToVZone(dt, lba)
			if vzone < 0 || vzone >= ZoneCount {
				t.Fatalf("LBAToVZone(%d,%d)=%d out of range", dt, lba, vzone)
			}
			if lba < VZoneStartLBA(dt, vzone) || lba >= vzoneLBATbl[dt][vzone] {
				t.Fatalf("lba %d not inside vzone %d of type %d", lba, vzone, dt)
			}
			want := BlockSize[PZoneToDiskZone(VZoneToPZone(dt, vzone))]
			if got := SizeOfLBA(dt, lba); got != want {
				t.Fatalf("SizeOfLBA(%d,%d)=%d want %d", dt, lba, got, want)
			}
			if got := SizeOfSector(dt, lba) * SectorCount; got != want {
				t.Fatalf("SizeOfSector(%d,%d)*85=%d want %d", dt, lba, got, want)
			}
		}
	}
}

func TestSizeOfLBA_Samples(t *testing.T) {
	tests := []struct {
		dt   int
		lba  int
		want int
	}{
		{0, 0, 19720},
		{0, 1000, 17680},
		{0, 2000, 13600},
		{0, 4315, 16320},
		{3, 3000, 18360},
		{5, 4315, 9520},
		{6, 4315, 18360},
	}
	for _, tt := range tests {
		if got := SizeOfLBA(tt.dt, tt.lba); got != tt.want {
			t.Errorf("SizeOfLBA(%d,%d)=%d want %d", tt.dt, tt.lba, got, tt.want)
		}
	}
}

func TestByteRange_TotalIsLogicalImageSize(t *testing.T) {
	for dt := 0; dt < DiskTypeCount; dt++ {
		got, err := ByteRange(dt, 0, LBACount)
		if err != nil {
			t.Fatalf("ByteRange(%d) err: %v", dt, err)
		}
		if got != 0x3DEC800 {
			t.Fatalf("ByteRange(%d,0,%d)=%#x want 0x3DEC800", dt, LBACount, got)
		}
	}

	sum := 0
	for lba := 0; lba < LBACount; lba++ {
		sum += SizeOfLBA(0, lba)
	}
	if sum != 0x3DEC800 {
		t.Fatalf("sum of SizeOfLBA=%#x want 0x3DEC800", sum)
	}
}

func TestByteRange_OutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		dt       int
		start, n int
	}{
		{"past end", 0, 4000, 317},
		{"start at end", 0, LBACount, 0},
		{"negative start", 0, -1, 1},
		{"negative count", 0, 10, -1},
		{"bad disk type", 7, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ByteRange(tt.dt, tt.start, tt.n); !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("ByteRange err=%v want ErrOutOfRange", err)
			}
		})
	}
}

func TestLBACountForBytes_LeftInverse(t *testing.T) {
	for dt := 0; dt < DiskTypeCount; dt++ {
		for _, start := range []int{0, 24, 291, 1442, 4000, LBACount - 1} {
			for k := 0; start+k <= LBACount; k += 37 {
				n, err := ByteRange(dt, start, k)
				if err != nil {
					t.Fatalf("ByteRange(%d,%d,%d) err: %v", dt, start, k, err)
				}
				got, err := LBACountForBytes(dt, start, n)
				if err != nil {
					t.Fatalf("LBACountForBytes(%d,%d,%d) err: %v", dt, start, n, err)
				}
				if got != k {
					t.Fatalf("LBACountForBytes(%d,%d,%d)=%d want %d", dt, start, n, got, k)
				}
			}
		}
	}

	if got, _ := LBACountForBytes(3, 100, 986000); got != 50 {
		t.Fatalf("LBACountForBytes(3,100,986000)=%d want 50", got)
	}
	if got, _ := LBACountForBytes(0, 0, 19721); got != 2 {
		t.Fatalf("LBACountForBytes partial block=%d want 2", got)
	}
	if _, err := LBACountForBytes(0, 4000, 0x3DEC800); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("LBACountForBytes overflow err=%v want ErrOutOfRange", err)
	}
}

func TestLBAToPhys(t *testing.T) {
	oneDefect := &DefectTable{}
	for i := range oneDefect {
		oneDefect[i] = []uint8{5}
	}

	tests := []struct {
		name    string
		defects *DefectTable
		lba     int
		want    PhysInfo
		zone    int
	}{
		{"lba 0", nil, 0, PhysInfo{0, 0, 0}, 0},
		{"lba 1", nil, 1, PhysInfo{0, 0, 1}, 0},
		{"lba 2", nil, 2, PhysInfo{0, 1, 1}, 0},
		{"lba 3", nil, 3, PhysInfo{0, 1, 0}, 0},
		{"lba 4", nil, 4, PhysInfo{0, 2, 0}, 0},
		{"zone 0 end", nil, 291, PhysInfo{0, 145, 0}, 0},
		{"zone 1 start", nil, 292, PhysInfo{0, 158, 0}, 1},
		{"last lba head 1", nil, 4315, PhysInfo{1, 316, 0}, 3},
		{"before defect", oneDefect, 8, PhysInfo{0, 4, 0}, 0},
		{"before defect block 1", oneDefect, 9, PhysInfo{0, 4, 1}, 0},
		{"after defect", oneDefect, 10, PhysInfo{0, 6, 1}, 0},
		{"after defect block 0", oneDefect, 11, PhysInfo{0, 6, 0}, 0},
		{"after defect next", oneDefect, 12, PhysInfo{0, 7, 0}, 0},
		{"head 1 untouched", oneDefect, 4315, PhysInfo{1, 316, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LBAToPhys(0, tt.defects, tt.lba)
			if err != nil {
				t.Fatalf("LBAToPhys err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("LBAToPhys(%d)=%+v want %+v", tt.lba, got, tt.want)
			}
			if z := got.Zone(); z != tt.zone {
				t.Fatalf("Zone()=%d want %d", z, tt.zone)
			}
		})
	}

	if _, err := LBAToPhys(0, nil, LBACount); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("LBAToPhys(LBACount) err=%v want ErrOutOfRange", err)
	}
}

func TestPhysicalOffset_Samples(t *testing.T) {
	tests := []struct {
		lba  int
		want int
	}{
		{0, 0},
		{1, 19720},
		{2, 59160},
		{3, 39440},
		{4, 78880},
		{292, 6231520},
		{1000, 45222720},
		{4315, 48192960},
	}
	for _, tt := range tests {
		got, err := PhysicalOffset(0, nil, tt.lba)
		if err != nil {
			t.Fatalf("PhysicalOffset(%d) err: %v", tt.lba, err)
		}
		if got != tt.want {
			t.Errorf("PhysicalOffset(%d)=%d want %d", tt.lba, got, tt.want)
		}
	}

	defects := &DefectTable{}
	defects[0] = []uint8{5}
	if got, _ := PhysicalOffset(0, defects, 10); got != 256360 {
		t.Fatalf("PhysicalOffset(10, defect)=%d want 256360", got)
	}
}

// Every LBA must land in its own slice of the physical capture.
func TestPhysInfo_OffsetFollowsDefectSkip(t *testing.T) {
	var defects DefectTable
	defects[0] = []uint8{0}
	for _, lba := range []int{0, 1, 2, 3, 8, 11} {
		plain, err := LBAToPhys(0, nil, lba)
		if err != nil {
			t.Fatal(err)
		}
		got, err := PhysicalOffset(0, &defects, lba)
		if err != nil {
			t.Fatal(err)
		}
		plain.Track++
		if want := plain.Offset(); got != want {
			t.Fatalf("lba %d offset=%#x want %#x", lba, got, want)
		}
	}
}

func TestPhysicalOffset_Bijective(t *testing.T) {
	const physicalSize = 0x435B0C0

	twoDefects := &DefectTable{}
	for i := range twoDefects {
		twoDefects[i] = []uint8{2, 9}
	}

	for _, defects := range []*DefectTable{nil, twoDefects} {
		for dt := 0; dt < DiskTypeCount; dt++ {
			type span struct{ start, end int }
			spans := make([]span, 0, LBACount)
			for lba := 0; lba < LBACount; lba++ {
				off, err := PhysicalOffset(dt, defects, lba)
				if err != nil {
					t.Fatalf("PhysicalOffset(%d,%d) err: %v", dt, lba, err)
				}
				spans = append(spans, span{off, off + SizeOfLBA(dt, lba)})
			}
			sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
			if spans[0].start < 0 || spans[len(spans)-1].end > physicalSize {
				t.Fatalf("type %d: spans [%d,%d) exceed physical image", dt, spans[0].start, spans[len(spans)-1].end)
			}
			for i := 1; i < len(spans); i++ {
				if spans[i-1].end > spans[i].start {
					t.Fatalf("type %d: overlapping blocks at %d", dt, spans[i].start)
				}
			}
		}
	}
}

func BenchmarkPhysicalOffset(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for lba := 0; lba < LBACount; lba++ {
			_, _ = PhysicalOffset(3, nil, lba)
		}
	}
}
