package geometry

// 64DD geometry constants. Tables are indexed by disk type where a leading
// dimension of DiskTypeCount is present.
const (
	DiskTypeCount  = 7
	LBACount       = 4316
	SectorCount    = 85
	SystemLBACount = 24

	ZoneCount     = 16
	DiskZoneCount = 9
	HeadCount     = 2
)

// Redundant system area blocks.
var (
	SystemLBAsRetail = [...]int{0, 1, 8, 9}
	SystemLBAsDev    = [...]int{2, 3, 10, 11}
	DiskIDLBAs       = [...]int{14, 15}
)

// RAMStartLBA is the first LBA of the writable area for each disk type.
var RAMStartLBA = [DiskTypeCount]int{0x5A2, 0x7C6, 0x9EA, 0xC0E, 0xE32, 0x1010, 0x10DC}

// BlockSize is the byte size of one block in each disk zone, outermost first.
var BlockSize = [DiskZoneCount]int{19720, 18360, 17680, 16320, 14960, 13600, 12240, 10880, 9520}

// vzoneLBATbl holds the exclusive end LBA of every virtual zone.
var vzoneLBATbl = [DiskTypeCount][ZoneCount]int{
	{0x0124, 0x0248, 0x035A, 0x047E, 0x05A2, 0x06B4, 0x07C6, 0x08D8, 0x09EA, 0x0AB6, 0x0B82, 0x0C94, 0x0DA6, 0x0EB8, 0x0FCA, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x06A2, 0x07C6, 0x08D8, 0x09EA, 0x0AFC, 0x0BC8, 0x0C94, 0x0DA6, 0x0EB8, 0x0FCA, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x0690, 0x07A2, 0x08C6, 0x09EA, 0x0AFC, 0x0C0E, 0x0CDA, 0x0DA6, 0x0EB8, 0x0FCA, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x0690, 0x07A2, 0x08B4, 0x09C6, 0x0AEA, 0x0C0E, 0x0D20, 0x0DEC, 0x0EB8, 0x0FCA, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x0690, 0x07A2, 0x08B4, 0x09C6, 0x0AD8, 0x0BEA, 0x0D0E, 0x0E32, 0x0EFE, 0x0FCA, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x0690, 0x07A2, 0x086E, 0x0980, 0x0A92, 0x0BA4, 0x0CB6, 0x0DC8, 0x0EEC, 0x1010, 0x10DC},
	{0x0124, 0x0248, 0x035A, 0x046C, 0x057E, 0x0690, 0x07A2, 0x086E, 0x093A, 0x0A4C, 0x0B5E, 0x0C70, 0x0D82, 0x0E94, 0x0FB8, 0x10DC},
}

var pzoneTbl = [DiskTypeCount][ZoneCount]int{
	{0x0, 0x1, 0x2, 0x9, 0x8, 0x3, 0x4, 0x5, 0x6, 0x7, 0xF, 0xE, 0xD, 0xC, 0xB, 0xA},
	{0x0, 0x1, 0x2, 0x3, 0xA, 0x9, 0x8, 0x4, 0x5, 0x6, 0x7, 0xF, 0xE, 0xD, 0xC, 0xB},
	{0x0, 0x1, 0x2, 0x3, 0x4, 0xB, 0xA, 0x9, 0x8, 0x5, 0x6, 0x7, 0xF, 0xE, 0xD, 0xC},
	{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0xC, 0xB, 0xA, 0x9, 0x8, 0x6, 0x7, 0xF, 0xE, 0xD},
	{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0xD, 0xC, 0xB, 0xA, 0x9, 0x8, 0x7, 0xF, 0xE},
	{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0xE, 0xD, 0xC, 0xB, 0xA, 0x9, 0x8, 0xF},
	{0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0xF, 0xE, 0xD, 0xC, 0xB, 0xA, 0x9, 0x8},
}

var diskZoneTbl = [ZoneCount]int{0, 1, 2, 3, 4, 5, 6, 7, 1, 2, 3, 4, 5, 6, 7, 8}

// BaseTrack is the first track of each zone per head. Head 1 counts inward.
var BaseTrack = [HeadCount][8]int{
	{0x000, 0x09E, 0x13C, 0x1D1, 0x266, 0x2FB, 0x390, 0x425},
	{0x091, 0x12F, 0x1C4, 0x259, 0x2EE, 0x383, 0x418, 0x48A},
}

// physZoneOffset is the start of each (zone, head) run in a physical capture,
// head 0 zones first.
var physZoneOffset = [ZoneCount]int{
	0x0000000, 0x05F15E0, 0x0B79D00, 0x10801A0, 0x1523720, 0x1963D80, 0x1D414C0, 0x20BBCE0,
	0x23196E0, 0x28A1E00, 0x2DF5DC0, 0x3299340, 0x36D99A0, 0x3AB70E0, 0x3E31900, 0x4149200,
}

// lbaOffsetTbl[t][n] is the byte size of LBAs [0, n) for disk type t.
var lbaOffsetTbl = buildLBAOffsets()

func buildLBAOffsets() (tbl [DiskTypeCount][LBACount + 1]int) {
	for t := 0; t < DiskTypeCount; t++ {
		for lba := 0; lba < LBACount; lba++ {
			tbl[t][lba+1] = tbl[t][lba] + SizeOfLBA(t, lba)
		}
	}
	return tbl
}
