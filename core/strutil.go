package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	var buf [20]byte
	if n < 0 {
		b := append(buf[:0], '-')
		return string(appendUint(b, uint32(-n)))
	}
	return string(appendUint(buf[:0], uint32(n)))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	var buf [10]byte
	return string(appendUint(buf[:0], n))
}

// appendUint appends the decimal digits of n to dst
func appendUint(dst []byte, n uint32) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	var digits [10]byte
	pos := len(digits)
	for n > 0 {
		pos--
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, digits[pos:]...)
}
