// ABOUTME: Caller-side coercion of free-text numeric fields into sizing inputs
// ABOUTME: Malformed text falls back to zero instead of producing an error

package models

import (
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

const bytesPerGiB = 1 << 30

// ParseIntField parses the leading integer of text, returning 0 when there is none.
// "12.7" yields 12 and "abc" yields 0.
func ParseIntField(text string) int {
	s := strings.TrimSpace(text)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseFloatField parses text as a finite float, returning 0 on failure
func ParseFloatField(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCPUQuantity returns a CPU limit in millicores.
// Input follows Kubernetes CPU quantities: bare numbers are cores ("0.5" is 500,
// "2" is 2000) and the m suffix is millicores ("500m").
func ParseCPUQuantity(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0
	}
	return float64(q.MilliValue())
}

// ParseMemoryQuantity returns a memory limit in GiB.
// Bare numbers are GiB ("1.5"); quantities carry their own unit ("512Mi", "2Gi", "1G").
func ParseMemoryQuantity(text string) float64 {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return ParseFloatField(s)
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0
	}
	return q.AsApproximateFloat64() / bytesPerGiB
}
