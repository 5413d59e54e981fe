package declare

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	groupRe = regexp.MustCompile(`^([A-Z]+)\((.*)\)$`)
	identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

const (
	objectsKeyword = "OBJECTS"
	fieldsKeyword  = "FIELDS"
)

// ParseObjectSelector parses an object key: an API name or OBJECTS(group).
func ParseObjectSelector(s string) (ObjectSelector, error) {
	s = strings.TrimSpace(s)

	if m := groupRe.FindStringSubmatch(s); m != nil {
		if m[1] != objectsKeyword {
			return nil, fmt.Errorf("invalid object selector %q: expected OBJECTS(...)", s)
		}

		g := ObjectGroup(strings.ToUpper(strings.TrimSpace(m[2])))
		if !g.IsValid() {
			return nil, fmt.Errorf("unknown object group %q (expected ALL, CUSTOM, STANDARD or POPULATED)", m[2])
		}

		return ObjectGroupSelector{Group: g}, nil
	}

	if !identRe.MatchString(s) {
		return nil, fmt.Errorf("malformed object selector %q", s)
	}

	return LiteralObject{Name: s}, nil
}

// ParseFieldSelector parses a field entry: an API name or FIELDS(group).
func ParseFieldSelector(s string) (FieldSelector, error) {
	s = strings.TrimSpace(s)

	if m := groupRe.FindStringSubmatch(s); m != nil {
		if m[1] != fieldsKeyword {
			return nil, fmt.Errorf("invalid field selector %q: expected FIELDS(...)", s)
		}

		g := FieldGroup(strings.ToUpper(strings.TrimSpace(m[2])))
		if !g.IsValid() {
			return nil, fmt.Errorf("unknown field group %q (expected ALL, CUSTOM, STANDARD or REQUIRED)", m[2])
		}

		return FieldGroupSelector{Group: g}, nil
	}

	if !identRe.MatchString(s) {
		return nil, fmt.Errorf("malformed field selector %q", s)
	}

	return LiteralField{Name: s}, nil
}

// ParseFieldSelectors parses a list of field entries. An empty list yields nil.
func ParseFieldSelectors(entries []string) ([]FieldSelector, error) {
	var out []FieldSelector

	for _, e := range entries {
		sel, err := ParseFieldSelector(e)
		if err != nil {
			return nil, err
		}

		out = append(out, sel)
	}

	return out, nil
}
