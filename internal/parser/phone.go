package parser

import (
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region assumed for numbers without a country code.
const DefaultPhoneRegion = "GE"

// NormalizePhones returns the valid numbers of raw in E.164 form, deduplicated.
// Numbers that cannot be parsed or validated are skipped.
func NormalizePhones(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		num, err := phonenumbers.Parse(r, DefaultPhoneRegion)
		if err != nil {
			continue
		}
		if !phonenumbers.IsValidNumber(num) {
			continue
		}
		out = append(out, phonenumbers.Format(num, phonenumbers.E164))
	}
	return DedupeNonEmpty(out...)
}
