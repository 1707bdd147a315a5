package buffer

import (
	"bytes"
	"testing"
)

func TestRepeat_IsRepeated(t *testing.T) {
	sector := bytes.Repeat([]byte{0xAB}, 0xE8)
	block := Repeat(sector, 0xE8, 85, 19720)
	if len(block) != 19720 {
		t.Fatalf("len=%d want 19720", len(block))
	}
	if !IsRepeated(block, 0xE8, 85) {
		t.Fatalf("IsRepeated=false want true")
	}

	block[0xE8*40+3] ^= 0xFF
	if IsRepeated(block, 0xE8, 85) {
		t.Fatalf("IsRepeated=true after corrupting sector 40")
	}
}

func TestRepeat_DevelopmentSectorsLeaveZeroTail(t *testing.T) {
	sector := bytes.Repeat([]byte{0x11}, 0xC0)
	block := Repeat(sector, 0xC0, 85, 19720)
	if !IsRepeated(block, 0xC0, 85) {
		t.Fatalf("IsRepeated(0xC0)=false want true")
	}
	tail := block[0xC0*85:]
	if !bytes.Equal(tail, make([]byte, len(tail))) {
		t.Fatalf("tail past 85 sectors is not zero")
	}
	if IsRepeated(block, 0xE8, 85) {
		t.Fatalf("development block accepted as retail")
	}
}

func TestIsRepeated_ShortBlock(t *testing.T) {
	if IsRepeated(make([]byte, 100), 0xE8, 85) {
		t.Fatalf("short block accepted")
	}
}
