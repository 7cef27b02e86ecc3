package smb2types

import "time"

// filetimeEpochDiff is the number of 100ns intervals between the Windows
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 116444736000000000

// Filetime is a Windows FILETIME: 100-nanosecond intervals since
// 1601-01-01, as used by every timestamp field in file information
// classes.
type Filetime uint64

// ToTime converts f to a UTC time.Time.
func (f Filetime) ToTime() time.Time {
	if f == 0 {
		return time.Time{}
	}
	units := int64(f) - filetimeEpochDiff
	return time.Unix(0, units*100).UTC()
}

// TimeToFiletime converts t to a Filetime. The zero time.Time maps to 0,
// matching the "no timestamp" convention several info classes use.
func TimeToFiletime(t time.Time) Filetime {
	if t.IsZero() {
		return 0
	}
	unixNanos := t.UnixNano()
	return Filetime(unixNanos/100 + filetimeEpochDiff)
}

// NowFiletime returns the current time as a Filetime.
func NowFiletime() Filetime {
	return TimeToFiletime(time.Now())
}
