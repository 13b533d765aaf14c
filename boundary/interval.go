package boundary

import (
	"strconv"
	"strings"
)

const (
	reasonShape  = "invalid interval value, supported format is HH:MM:SS"
	reasonNumber = "unparsable interval value, supported format is HH:MM:SS"
)

var intervalFields = [3]struct {
	name string
	max  int
}{
	{"hour", 23},
	{"minutes", 59},
	{"seconds", 59},
}

// ParseInterval parses HH:MM:SS. Fields are parsed and range checked left to
// right; the first failure is reported.
func ParseInterval(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != len(intervalFields) {
		return Clock{}, FormatError{Value: s, Reason: reasonShape}
	}
	var n [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Clock{}, FormatError{Value: s, Reason: reasonNumber}
		}
		f := intervalFields[i]
		if v < 0 || v > f.max {
			return Clock{}, FormatError{
				Value:  s,
				Field:  f.name,
				Reason: "invalid " + f.name + " value in interval, it should be between 0 and " + strconv.Itoa(f.max),
			}
		}
		n[i] = v
	}
	return Clock{Hour: n[0], Minute: n[1], Second: n[2]}, nil
}
