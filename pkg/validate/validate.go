// Package validate enforces the document-wide constraints on element IDs and
// on citation and footnote keys.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// Validation failure kinds. Every *Error wraps exactly one of them.
var (
	ErrBlank               = errors.New("blank")
	ErrWhitespace          = errors.New("contains whitespace")
	ErrInvalidChars        = errors.New("invalid characters")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrDefinedBeforeUse    = errors.New("defined before use")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrNamespaceCollision  = errors.New("namespace collision")
)

// footnoteForbidden matches any character a footnote key may not contain.
var footnoteForbidden = regexp2.MustCompile(`[^a-zA-Z0-9*✝‡§¶#]`, regexp2.ECMAScript)

// Error describes a rejected id or key.
type Error struct {
	Kind    error
	Key     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, key, format string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Message: fmt.Sprintf(format, args...)}
}

// Validator tracks one document's ids and reference keys. The zero value is
// not usable; call New.
type Validator struct {
	ids                 map[string]struct{}
	citationRefs        map[string]int
	citationDefinitions map[string]struct{}
	footnoteRefs        map[string]int
	footnoteDefinitions map[string]struct{}
}

// New returns an empty validator.
func New() *Validator {
	v := &Validator{}
	v.Reset()
	return v
}

// Reset forgets every recorded id and key.
func (v *Validator) Reset() {
	v.ids = make(map[string]struct{})
	v.citationRefs = make(map[string]int)
	v.citationDefinitions = make(map[string]struct{})
	v.footnoteRefs = make(map[string]int)
	v.footnoteDefinitions = make(map[string]struct{})
}

// ValidateID records id as an element id.
func (v *Validator) ValidateID(id string) error {
	switch {
	case id == "":
		return newError(ErrBlank, id, "element id cannot be blank")
	case hasSpace(id):
		return newError(ErrWhitespace, id, "id '%s' cannot contain whitespace", id)
	}
	if _, ok := v.ids[id]; ok {
		return newError(ErrDuplicateID, id, "id '%s' is already assigned, ids must be unique", id)
	}
	v.ids[id] = struct{}{}
	return nil
}

// CitationKey records a use of key and returns the back-link label for this
// use: "a" for the first, "b" for the second and so on.
func (v *Validator) CitationKey(key string) (string, error) {
	if key == "" {
		return "", newError(ErrBlank, key, "citation cannot be blank")
	}
	if v.footnoteRefs[key] > 0 {
		return "", newError(ErrNamespaceCollision, key, "%s - citation cannot share a key with a footnote", key)
	}
	v.citationRefs[key]++
	return IndexToLetters(v.citationRefs[key] - 1), nil
}

// CitationDefinition records the definition of key and returns how many times
// it was cited.
func (v *Validator) CitationDefinition(key string) (int, error) {
	if key == "" {
		return 0, newError(ErrBlank, key, "citation definition cannot be blank")
	}
	if v.citationRefs[key] == 0 {
		return 0, newError(ErrDefinedBeforeUse, key, "%s - citation must be used before being defined", key)
	}
	if _, ok := v.footnoteDefinitions[key]; ok {
		return 0, newError(ErrNamespaceCollision, key, "%s - citation cannot share a key with a footnote", key)
	}
	if _, ok := v.citationDefinitions[key]; ok {
		return 0, newError(ErrDuplicateDefinition, key, "%s - citation is already defined", key)
	}
	v.citationDefinitions[key] = struct{}{}
	return v.citationRefs[key], nil
}

// FootnoteKey records a use of key and returns the back-link label for this
// use. Labels are decimal use counts regardless of the key.
func (v *Validator) FootnoteKey(key string) (string, error) {
	if err := checkFootnoteKey(key, "footnote"); err != nil {
		return "", err
	}
	if v.citationRefs[key] > 0 {
		return "", newError(ErrNamespaceCollision, key, "%s - footnote cannot share a key with a citation", key)
	}
	v.footnoteRefs[key]++
	return strconv.Itoa(v.footnoteRefs[key]), nil
}

// FootnoteDefinition records the definition of key and returns how many times
// it was referenced.
func (v *Validator) FootnoteDefinition(key string) (int, error) {
	if err := checkFootnoteKey(key, "footnote definition"); err != nil {
		return 0, err
	}
	if v.footnoteRefs[key] == 0 {
		return 0, newError(ErrDefinedBeforeUse, key, "%s - footnote must be used before being defined", key)
	}
	if _, ok := v.citationDefinitions[key]; ok {
		return 0, newError(ErrNamespaceCollision, key, "%s - footnote definition cannot share a key with a citation", key)
	}
	if _, ok := v.footnoteDefinitions[key]; ok {
		return 0, newError(ErrDuplicateDefinition, key, "%s - footnote is already defined", key)
	}
	v.footnoteDefinitions[key] = struct{}{}
	return v.footnoteRefs[key], nil
}

func checkFootnoteKey(key, what string) error {
	if key == "" {
		return newError(ErrBlank, key, "%s cannot be blank", what)
	}
	if hasSpace(key) {
		return newError(ErrWhitespace, key, "%s - %s cannot contain whitespace", key, what)
	}
	if bad, _ := footnoteForbidden.MatchString(key); bad {
		return newError(ErrInvalidChars, key, "%s - %s can only contain alphanumeric characters", key, what)
	}
	return nil
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// IndexToLetters converts a zero-based index to a lowercase letter sequence:
// 0 is "a", 25 is "z", 26 is "aa".
func IndexToLetters(index int) string {
	if index < 0 {
		return ""
	}
	var letters []byte
	for {
		letters = append(letters, byte('a'+index%26))
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}
