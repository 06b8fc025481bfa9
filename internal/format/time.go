package format

import "time"

const (
	filetimeUnixDelta = 11644473600 // seconds between 1601-01-01 and 1970-01-01
	filetimeTicks     = 10000000    // 100ns ticks per second
)

// FiletimeToTime converts a Windows FILETIME value to UTC time.Time. Values
// before the Unix epoch are supported down to 1601-01-01.
func FiletimeToTime(v uint64) time.Time {
	secs := int64(v / filetimeTicks)
	nsec := int64(v%filetimeTicks) * 100
	return time.Unix(secs-filetimeUnixDelta, nsec).UTC()
}

// TimeToFiletime converts t to a FILETIME value. Times before 1601 clamp to 0.
func TimeToFiletime(t time.Time) uint64 {
	secs := t.Unix() + filetimeUnixDelta
	if secs < 0 {
		return 0
	}
	return uint64(secs)*filetimeTicks + uint64(t.Nanosecond())/100
}

// FiletimeToDOS converts a FILETIME to MS-DOS date and time words the way
// FileTimeToDosDateTime does: two-second resolution, years 1980 through 2107.
// ok is false outside that range.
func FiletimeToDOS(v uint64) (date, clock uint16, ok bool) {
	t := FiletimeToTime(v)
	if t.Year() < 1980 || t.Year() > 2107 {
		return 0, 0, false
	}
	date = uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	clock = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, clock, true
}

// DOSToFiletime converts MS-DOS date and time words back to a FILETIME.
func DOSToFiletime(date, clock uint16) uint64 {
	t := time.Date(
		int(date>>9)+1980,
		time.Month((date>>5)&0x0F),
		int(date&0x1F),
		int(clock>>11),
		int((clock>>5)&0x3F),
		int(clock&0x1F)*2,
		0,
		time.UTC,
	)
	return TimeToFiletime(t)
}
