package sqlkit

import (
	"strings"
	"unicode"
)

// ToUnderscore converts a "PascalCase" word to its "snake_case" (underscore)
// form. For example, "FullName" will be converted to "full_name". This is the
// fixed naming rule used to derive table names from record type names and
// column names from field names.
func ToUnderscore(str string) string { // from govalidator
	var output []rune
	var segment []rune
	for _, r := range str {
		// not treat number as separate segment
		if !unicode.IsLower(r) && string(r) != "_" && !unicode.IsNumber(r) {
			output = addSegment(output, segment)
			segment = nil
		}
		segment = append(segment, unicode.ToLower(r))
	}
	output = addSegment(output, segment)
	return string(output)
}

func addSegment(inrune, segment []rune) []rune { // from govalidator
	if len(segment) == 0 {
		return inrune
	}
	if len(inrune) != 0 {
		inrune = append(inrune, '_')
	}
	inrune = append(inrune, segment...)
	return inrune
}

// ToPascal converts a "snake_case" name back to "PascalCase". It is the exact
// inverse of ToUnderscore for names produced by it.
func ToPascal(str string) string {
	var out strings.Builder
	out.Grow(len(str))
	upper := true
	for _, r := range str {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			out.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}
