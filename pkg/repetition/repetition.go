package repetition

import "errors"

// Rule is an RFC 5545 RRULE string attached to a schedule's metadata, for
// example "FREQ=WEEKLY;BYDAY=SA".
type Rule struct {
	MetadataId int
	Rule       string
}

var ErrInvalidRule = errors.New("invalid repetition rule")
