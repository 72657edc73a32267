package textutil

// DefaultEllipsis joins the two kept ends of a brief string.
const DefaultEllipsis = "..."

// Brief shortens s by eliding its middle. Lengths count runes.
//
// A maxLength of zero or less means "no limit". When s is longer than
// maxLength, the first maxLength/2 runes and the last maxLength-maxLength/2
// runes are kept around ellipsis. The ellipsis is not counted against
// maxLength, so the result is longer than maxLength whenever ellipsis is
// non-empty.
func Brief(s string, maxLength int, ellipsis string) string {
	runes := []rune(s)
	if maxLength <= 0 {
		maxLength = len(runes)
	}
	if len(runes) <= maxLength {
		return s
	}

	head := maxLength / 2
	tailStart := head + (len(runes) - maxLength)
	return string(runes[:head]) + ellipsis + string(runes[tailStart:])
}

// BriefDefault is Brief with DefaultEllipsis.
func BriefDefault(s string, maxLength int) string {
	return Brief(s, maxLength, DefaultEllipsis)
}
