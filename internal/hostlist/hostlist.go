// Package hostlist expands slurm's compact hostlist notation into
// individual host names.
//
// A hostlist is a comma-separated list of segments, where each segment is
// either a plain host name or a prefix followed by a bracketed body of
// comma-separated items and low-high ranges:
//
//	c13n[01-03,05]  ->  c13n01 c13n02 c13n03 c13n05
//	a,b[1-2]        ->  a b1 b2
//
// Range items are zero-padded to the character width of the low literal.
// Expansion preserves input order: segment order, then item order within a
// bracket, then increasing range order.
package hostlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// Expand returns the fully materialized expansion of a hostlist, in order.
// Unbalanced brackets are reported as a parse error naming the offending
// segment.
func Expand(list string) ([]string, error) {
	hosts := make([]string, 0, 8)
	err := ExpandTo(list, func(host string) {
		hosts = append(hosts, host)
	})
	if err != nil {
		return nil, err
	}
	return hosts, nil
}

// ExpandTo expands a hostlist, pushing each host name into sink as it is
// produced. The sink is not called after the first error.
func ExpandTo(list string, sink func(string)) error {
	for _, segment := range splitSegments(list) {
		if err := expandSegment(segment, sink); err != nil {
			return err
		}
	}
	return nil
}

// splitSegments splits a hostlist on top-level commas only. Commas nested
// inside brackets are not split points; bracket depth is tracked while
// scanning left to right. Balance errors are left for expandSegment so they
// are reported against the segment that contains them.
func splitSegments(list string) []string {
	segments := make([]string, 0, 4)
	depth := 0
	start := 0
	for i, c := range list {
		switch c {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth <= 0 {
				segments = append(segments, list[start:i])
				start = i + 1
			}
		}
	}
	return append(segments, list[start:])
}

// expandSegment expands a single segment: either a plain host name or
// prefix[body] range notation.
func expandSegment(segment string, sink func(string)) error {
	open := strings.IndexByte(segment, '[')
	if open < 0 {
		if strings.IndexByte(segment, ']') >= 0 {
			return badSegment(segment)
		}
		sink(segment)
		return nil
	}

	closing := strings.IndexByte(segment, ']')
	if closing < open {
		return badSegment(segment)
	}

	prefix := segment[:open]
	body := segment[open+1 : closing]
	for _, item := range strings.Split(body, ",") {
		lo, hi, isRange := strings.Cut(item, "-")
		if !isRange {
			sink(prefix + item)
			continue
		}
		loNum, err := strconv.Atoi(lo)
		if err != nil {
			return badSegment(segment)
		}
		hiNum, err := strconv.Atoi(hi)
		if err != nil {
			return badSegment(segment)
		}
		// Pad to the width of the low literal, so [01-03] keeps
		// its leading zeros.
		width := len(lo)
		for i := loNum; i <= hiNum; i++ {
			sink(fmt.Sprintf("%s%0*d", prefix, width, i))
		}
	}
	return nil
}

func badSegment(segment string) error {
	return errors.Newf(errors.ErrParse, "malformed hostlist segment '%s'", segment)
}
