package util

import (
	"fmt"
	"math"
	"strconv"
)

func FormatFileSize(size float64, human bool) string {
	if size <= 0 {
		return "0"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	group := 0
	if human {
		group = int(math.Log10(size) / math.Log10(1024))
		if group < 0 {
			group = 0
		}
		if group >= len(units) {
			group = len(units) - 1
		}
	}
	return fmt.Sprintf("%.2f %s", size/math.Pow(1024, float64(group)), units[group])
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func ReadString(data []byte, count int, pos *int) string {
	if *pos+count > len(data) {
		count = len(data) - *pos
		if count < 0 {
			count = 0
		}
	}
	val := string(data[*pos : *pos+count])
	*pos += count
	return val
}

func ReadUint16(data []byte, pos *int) uint16 {
	if *pos+2 > len(data) {
		return 0
	}
	val := uint16(data[*pos])<<8 | uint16(data[*pos+1])
	*pos += 2
	return val
}

func ReadUint32(data []byte, pos *int) uint32 {
	if *pos+4 > len(data) {
		return 0
	}
	val := uint32(data[*pos])<<24 | uint32(data[*pos+1])<<16 | uint32(data[*pos+2])<<8 | uint32(data[*pos+3])
	*pos += 4
	return val
}

func ReadByte(data []byte, pos *int) byte {
	if *pos >= len(data) {
		return 0
	}
	b := data[*pos]
	*pos += 1
	return b
}

func PutUint16(data []byte, pos int, v uint16) {
	data[pos] = byte(v >> 8)
	data[pos+1] = byte(v)
}

func PutUint32(data []byte, pos int, v uint32) {
	data[pos] = byte(v >> 24)
	data[pos+1] = byte(v >> 16)
	data[pos+2] = byte(v >> 8)
	data[pos+3] = byte(v)
}
