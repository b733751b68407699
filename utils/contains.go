package utils

import "strings"

// ContainsString returns true if a string is present in string slice
func ContainsString(s []string, v string) bool {
	for _, vv := range s {
		if vv == v {
			return true
		}
	}
	return false
}

// ContainsStringFold is the case-insensitive variant of ContainsString
func ContainsStringFold(s []string, v string) bool {
	for _, vv := range s {
		if strings.EqualFold(vv, v) {
			return true
		}
	}
	return false
}
