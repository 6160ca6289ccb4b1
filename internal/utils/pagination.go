// Package utils holds small helpers shared by the HTTP and service layers.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageBounds returns the half-open slice window [start, end) for a 1-based
// page over total items. Out-of-range pages yield start == end == total.
// page < 1 is treated as 1 and size < 1 as 1.
func PageBounds(total, page, size int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if total <= 0 {
		return 0, 0
	}
	if (page - 1) >= (total+size-1)/size {
		return total, total
	}
	start = (page - 1) * size
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}

// TotalPages is the number of pages of size needed to hold total items.
func TotalPages(total, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return (total + size - 1) / size
}
