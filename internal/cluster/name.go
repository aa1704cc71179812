package cluster

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ycrc/Orwell-CLI/internal/errors"
)

// nodeNameRE matches the two accepted host name shapes:
//
//	gpu02   -> chassis "gpu", index 2
//	c13n05  -> chassis "c13", index 5
var nodeNameRE = regexp.MustCompile(`^([a-zA-Z]+)(\d+)n?(\d*)$`)

// SplitNodeName decomposes a host name into its chassis id and node index.
// Names that match neither accepted shape are a parse error.
func SplitNodeName(name string) (chassis string, index int, err error) {
	m := nodeNameRE.FindStringSubmatch(name)
	if m == nil {
		return "", 0, errors.Newf(errors.ErrParse,
			"host name '%s' does not match the expected naming pattern", name)
	}
	if m[3] == "" {
		// <letters><index>
		chassis = m[1]
		index, _ = strconv.Atoi(m[2])
	} else {
		// <letters><digits>n<index>
		chassis = m[1] + m[2]
		index, _ = strconv.Atoi(m[3])
	}
	return chassis, index, nil
}

// CanonicalName rebuilds the canonical host name for a chassis and index.
// Chassis ids that carry a numeric group use the 'n' infix form; the index
// is zero-padded to two digits either way. Inverse of SplitNodeName for all
// indices below 100.
func CanonicalName(chassis string, index int) string {
	last := chassis[len(chassis)-1]
	if last >= '0' && last <= '9' {
		return fmt.Sprintf("%sn%02d", chassis, index)
	}
	return fmt.Sprintf("%s%02d", chassis, index)
}

// Canonicalize parses a host name and rewrites it in canonical form, so both
// ingestion streams key nodes identically regardless of zero padding.
func Canonicalize(name string) (string, error) {
	chassis, index, err := SplitNodeName(name)
	if err != nil {
		return "", err
	}
	return CanonicalName(chassis, index), nil
}
