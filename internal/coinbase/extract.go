// Package coinbase attributes blocks to mining pools from coinbase script
// bytes. Attribution is best-effort: pools are free to put anything (or
// nothing) in their coinbase, so a result may be missing or wrong and must
// never be treated as authoritative.
package coinbase

import "strings"

// Extract scans a coinbase input script for a pool tag. The primary form is
// the /Name/ convention; the last such tag wins, so version-signaling tags
// earlier in the script do not shadow the pool tag. When no slash tag is
// present, the longest printable ASCII run of at least four bytes is used.
func Extract(script []byte) (string, bool) {
	if name, ok := lastSlashTag(script); ok {
		return name, true
	}
	return longestPrintableRun(script)
}

func lastSlashTag(script []byte) (string, bool) {
	var name string
	found := false
	for i := 0; i < len(script); {
		if script[i] != '/' {
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(script); j++ {
			if script[j] == '/' {
				end = j
				break
			}
		}
		if end < 0 {
			break
		}
		if tag := script[i+1 : end]; len(tag) > 0 && printableOrSpace(tag) {
			name = string(tag)
			found = true
		}
		i = end + 1
	}
	return name, found
}

func printableOrSpace(b []byte) bool {
	for _, c := range b {
		if c != ' ' && (c <= 0x20 || c > 0x7e) {
			return false
		}
	}
	return true
}

func longestPrintableRun(script []byte) (string, bool) {
	best := ""
	start := -1
	for i, c := range script {
		if c >= 0x20 && c <= 0x7e {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start > len(best) {
			best = string(script[start:i])
		}
		start = -1
	}
	if start >= 0 && len(script)-start > len(best) {
		best = string(script[start:])
	}
	if len(best) < 4 {
		return "", false
	}
	return strings.TrimSpace(best), true
}
