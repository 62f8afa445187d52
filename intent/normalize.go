package intent

import "unicode"

// normalizeRunes lowercases the input and strips noise so keyword
// patterns survive punctuation, spacing tricks and common leet or
// accented spellings ("¿PRECIO?", "pr3cio", "cotización").
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(unicode.ToLower(r))
		if isNoise(clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// simplifyRune folds leet speak and Spanish diacritics back to their
// plain-alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@', 'á':
		return 'a'
	case '3', '€', 'é':
		return 'e'
	case '1', '!', '|', 'í':
		return 'i'
	case '0', 'ó':
		return 'o'
	case '5', '$':
		return 's'
	case 'ú', 'ü':
		return 'u'
	default:
		return r
	}
}

// isNoise identifies characters ignored during matching. Spaces are
// dropped too: both patterns and text collapse the same way, which lets
// multi-word phrases match regardless of spacing.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
