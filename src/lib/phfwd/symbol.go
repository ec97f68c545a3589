package phfwd

// base is the number of distinct symbols a phone number is built from.
const base = 12

// Code maps a number symbol onto its branch index: '0'-'9' become 0-9,
// '*' becomes 10 and '#' becomes 11. Anything else yields -1.
func Code(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c == '*':
		return 10
	case c == '#':
		return 11
	}
	return -1
}

// Symbol is the inverse of Code. Codes outside [0, base) yield 0.
func Symbol(code int) byte {
	switch {
	case code >= 0 && code <= 9:
		return '0' + byte(code)
	case code == 10:
		return '*'
	case code == 11:
		return '#'
	}
	return 0
}

// ValidNumber reports whether num is a non-empty string made only of
// the twelve number symbols.
func ValidNumber(num string) bool {
	if num == "" {
		return false
	}
	for i := 0; i < len(num); i++ {
		if Code(num[i]) < 0 {
			return false
		}
	}
	return true
}

// Compare orders two numbers symbol by symbol by their codes; when one is
// a prefix of the other the shorter one comes first.
func Compare(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := Code(a[i]), Code(b[i])
		if ca < cb {
			return -1
		}
		if ca > cb {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func Less(a, b string) bool {
	return Compare(a, b) < 0
}
