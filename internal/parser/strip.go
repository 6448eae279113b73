package parser

// strip cuts non-alphanumeric characters from both ends of s, mirroring
// string_strip's isalnum-bounded trim. Returns ("", false) if nothing
// alphanumeric remains.
func strip(s string) (string, bool) {
	start := 0
	for start < len(s) && !isAlnum(s[start]) {
		start++
	}
	if start == len(s) {
		return "", false
	}
	end := len(s) - 1
	for end >= start && !isAlnum(s[end]) {
		end--
	}
	return s[start : end+1], true
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
