package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt reads a spreadsheet cell or prompt answer as an int.
// "3", " 3 ", "3.0" and "3 pcs" all read as 3; anything else is 0.
func ToInt(s string) int {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	i, _ := strconv.Atoi(s[:end])
	return i
}

// ToString converts a decoded JSON value to a trimmed string.
// Whole numbers are rendered without a fractional part ("10086" rather than
// "10086.000000").
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// ToBool reads a prompt answer: "1", "true", "y", "yes" and "是" are true.
func ToBool(s string) bool {
	return truthy(s)
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "y", "yes", "是":
		return true
	default:
		return false
	}
}
