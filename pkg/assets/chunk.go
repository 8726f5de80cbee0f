// Copyright 2025 Certen Protocol

package assets

// ChunkSize is ASSET_CHUNK_SIZE from §4.5: bodies larger than this are
// split into consecutive chunks, each independently certified.
const ChunkSize = 2 * 1024 * 1024 // 2 MiB

// Range describes one chunk's byte interval within the full body.
type Range struct {
	Start int // inclusive
	End   int // inclusive
	Total int
}

// Split divides content into consecutive ChunkSize-sized ranges. A content
// slice smaller than or equal to ChunkSize yields a single range covering
// the whole body (Start=0, End=len-1).
func Split(content []byte) []Range {
	total := len(content)
	if total == 0 {
		return []Range{{Start: 0, End: -1, Total: 0}}
	}
	var ranges []Range
	for start := 0; start < total; start += ChunkSize {
		end := start + ChunkSize - 1
		if end >= total {
			end = total - 1
		}
		ranges = append(ranges, Range{Start: start, End: end, Total: total})
	}
	return ranges
}

// ChunkBody returns the byte slice for r within content.
func ChunkBody(content []byte, r Range) []byte {
	if r.End < r.Start {
		return nil
	}
	return content[r.Start : r.End+1]
}

// ChunkIndexForOffset returns the chunk index whose range starts at byte
// offset, and whether such a chunk boundary exists. Non-aligned offsets
// return ok=false (§4.5: "non-aligned ranges fail with a not-satisfiable
// status").
func ChunkIndexForOffset(ranges []Range, offset int) (index int, ok bool) {
	for i, r := range ranges {
		if r.Start == offset {
			return i, true
		}
	}
	return 0, false
}
