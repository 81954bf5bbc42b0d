package stego

import "fmt"

const (
	// SymbolBits is the number of payload bits carried by one pixel.
	SymbolBits = 6

	// MaxUintSymbols is the widest integer field UnpackUint accepts.
	MaxUintSymbols = 6
)

// PackedLen returns how many symbols PackBytes produces for n bytes,
// ceil(8n / 6).
func PackedLen(n int) int {
	return (n*8 + SymbolBits - 1) / SymbolBits
}

// PackBytes slices data, read as one big-endian bit stream, into 6-bit
// symbols. Each full 3-byte group yields 4 symbols. A trailing single byte
// yields 2 symbols and a trailing byte pair yields 3, the last symbol
// zero-padded on the right.
func PackBytes(data []byte) []Symbol {
	out := make([]Symbol, 0, PackedLen(len(data)))

	i := 0
	for ; i+2 < len(data); i += 3 {
		v := uint64(data[i])<<16 | uint64(data[i+1])<<8 | uint64(data[i+2])
		out = append(out,
			symbolOf(v>>18),
			symbolOf(v>>12),
			symbolOf(v>>6),
			symbolOf(v),
		)
	}

	switch len(data) - i {
	case 1:
		b := data[i]
		out = append(out,
			Symbol(b>>2),
			Symbol((b&0b11)<<4),
		)
	case 2:
		b0, b1 := data[i], data[i+1]
		out = append(out,
			Symbol(b0>>2),
			Symbol((b0&0b11)<<4|b1>>4),
			Symbol((b1&0x0F)<<2),
		)
	}
	return out
}

// paddingBits derives how many zero bits PackBytes appended from the run
// length alone: the total bit count is 0, 2 or 4 bits past a byte boundary.
func paddingBits(symbolCount int) int {
	totalBits := symbolCount * SymbolBits
	switch {
	case totalBits%8 == 0:
		return 0
	case (totalBits-2)%8 == 0:
		return 2
	default:
		return 4
	}
}

// UnpackBytes is the inverse of PackBytes. Runs of length 4k+1 cannot come
// from PackBytes and are rejected with ErrRange.
func UnpackBytes(symbols []Symbol) ([]byte, error) {
	n := len(symbols)
	if n%4 == 1 {
		return nil, fmt.Errorf("%d symbols do not describe a byte sequence: %w", n, ErrRange)
	}

	padding := paddingBits(n)
	out := make([]byte, (n*SymbolBits-padding)/8)

	i, x := 0, 0
	for ; i+3 < n; i += 4 {
		v := uint64(symbols[i])<<18 |
			uint64(symbols[i+1])<<12 |
			uint64(symbols[i+2])<<6 |
			uint64(symbols[i+3])
		out[x] = byte(v >> 16)
		out[x+1] = byte(v >> 8)
		out[x+2] = byte(v)
		x += 3
	}

	rest := n - i
	if rest == 0 {
		return out, nil
	}

	var tail uint64
	for _, s := range symbols[i:] {
		tail = tail<<SymbolBits | uint64(s)
	}
	tail >>= uint(padding)

	for j := (rest*SymbolBits-padding)/8 - 1; j >= 0; j-- {
		out[x+j] = byte(tail)
		tail >>= 8
	}
	return out, nil
}

// PackUint encodes value as exactly count symbols, most significant first,
// zero-extended on the left. A count of 0 selects the fewest symbols that
// hold value (one for zero). Values wider than 6*count bits fail with
// ErrRange instead of being truncated.
func PackUint(value uint64, count int) ([]Symbol, error) {
	if count < 0 {
		return nil, fmt.Errorf("symbol count must be 0 or greater, was %d: %w", count, ErrRange)
	}
	if count == 0 {
		count = 1
		for v := value >> SymbolBits; v > 0; v >>= SymbolBits {
			count++
		}
	}
	if bits := count * SymbolBits; bits < 64 && value>>uint(bits) != 0 {
		return nil, fmt.Errorf("%d does not fit in %d symbols: %w", value, count, ErrRange)
	}

	out := make([]Symbol, count)
	for i := 0; i < count; i++ {
		shift := i * SymbolBits
		if shift >= 64 {
			break
		}
		out[count-1-i] = symbolOf(value >> uint(shift))
	}
	return out, nil
}

// UnpackUint recomposes up to MaxUintSymbols symbols, most significant
// first, into an unsigned integer.
func UnpackUint(symbols []Symbol) (uint64, error) {
	if len(symbols) > MaxUintSymbols {
		return 0, fmt.Errorf("integer field of %d symbols exceeds %d: %w", len(symbols), MaxUintSymbols, ErrRange)
	}
	var v uint64
	for _, s := range symbols {
		v = v<<SymbolBits | uint64(s)
	}
	return v, nil
}
