package utility

import "encoding/binary"

func Concat[T any](arrays ...[]T) []T {
	result := []T{}
	for _, ele := range arrays {
		result = append(result, ele...)
	}
	return result
}

// Compact drops adjacent repeats from s, reusing its backing array.
func Compact[T comparable](s []T) []T {
	if len(s) < 2 {
		return s
	}
	k := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[k-1] {
			s[k] = s[i]
			k++
		}
	}
	return s[:k]
}

func UintToBytes(u uint64) []byte {
	int_buffer := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(int_buffer, u)
	return int_buffer[:n]
}
