package extract

import "github.com/slipline/slipline/internal/pkg/models"

// Parse classifies a raw line against the ordered format list. The first
// pattern that structurally matches wins; later patterns are not tried.
// A line matching nothing returns nil; the caller counts it and moves on,
// an unrecognized line is never an error.
func Parse(line string, lineNumber int) *models.ParsedLineCandidate {
	for _, f := range lineFormats {
		if groups := f.re.FindStringSubmatch(line); groups != nil {
			return f.build(groups, lineNumber)
		}
	}
	return nil
}
