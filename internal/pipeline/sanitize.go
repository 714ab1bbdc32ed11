package pipeline

import "strconv"

// Sanitize coerces a free-form currency or number cell into a float64.
// Everything except digits, '.' and '-' is stripped first, so "1,000.00" and
// "AED 500" both parse. Blank or unparsable input yields 0; this never errors
// because a bad cell must not sink a whole upload.
func Sanitize(raw string) float64 {
	cleaned := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' {
			cleaned = append(cleaned, ch)
		}
	}
	if len(cleaned) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil {
		return 0
	}
	return v
}
