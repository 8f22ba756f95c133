package types

import (
	"strconv"
)

// Score is a quality score in [0, 100]. It always serializes with exactly one
// decimal place so that a perfect run reads 100.0 rather than 100.
type Score float64

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Score(v)
	return nil
}

// String formats the score with one decimal place.
func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', 1, 64)
}
