package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"

	"github.com/yaklabco/jotdown/pkg/jdast"
	"github.com/yaklabco/jotdown/pkg/rules"
)

var (
	overrideStyle   = regexp2.MustCompile(`\$(.*)\$`, regexp2.ECMAScript)
	overrideID      = regexp2.MustCompile(`#([A-Za-z0-9][A-Za-z0-9\-_:.]*)`, regexp2.ECMAScript)
	overrideClasses = regexp2.MustCompile(`\.(.*)`, regexp2.ECMAScript)
)

// overridesParser collects the raw text of a {...} block and turns it into
// the overrides applied to the next node.
type overridesParser struct {
	base   *baseParser
	logger *log.Logger
	raw    strings.Builder
}

func newOverridesParser(base *baseParser, logger *log.Logger) *overridesParser {
	return &overridesParser{base: base, logger: logger}
}

func (o *overridesParser) reset() {
	o.raw.Reset()
}

func (o *overridesParser) parse(tok jdast.Token) error {
	if tok.Type != rules.RightCurly {
		o.raw.WriteString(tok.Value)
		return nil
	}

	b := o.base
	raw := o.raw.String()
	if node := b.safe(false); node != nil {
		node.Value = raw
	}

	overrides, err := o.extract(raw)
	if err != nil {
		var pErr *Error
		if errors.As(err, &pErr) {
			pErr.Token = tok
			return pErr
		}
		return b.invalid(tok, err)
	}

	o.logger.Debug("overrides", "style", overrides.Style, "id", overrides.ID, "classes", overrides.Classes)

	b.tree.SetOverride(overrides)
	b.pushSkip(jdast.KindOverrides, tok)
	b.overridesMode = false
	o.reset()
	return nil
}

// extract reads, in order, the $...$ inline style, one #id and the class list.
func (o *overridesParser) extract(raw string) (*jdast.Overrides, error) {
	overrides := &jdast.Overrides{Raw: raw}
	rest := raw

	if match, _ := overrideStyle.FindStringMatch(rest); match != nil {
		for _, decl := range strings.Split(match.GroupByNumber(1).String(), ";") {
			if strings.TrimSpace(decl) == "" {
				continue
			}
			property, value, ok := strings.Cut(decl, ":")
			if !ok {
				return nil, &Error{
					Kind: ErrInvalidStyle,
					Node: jdast.KindOverrides,
					Near: raw,
					Err:  fmt.Errorf("declaration %q has no value", strings.TrimSpace(decl)),
				}
			}
			overrides.SetStyle(strings.TrimSpace(property), strings.TrimSpace(value))
		}
		rest = strings.Replace(rest, match.String(), "", 1)
	}

	if match, _ := overrideID.FindStringMatch(rest); match != nil {
		id := strings.TrimSpace(match.GroupByNumber(1).String())
		if err := o.base.validator.ValidateID(id); err != nil {
			return nil, err
		}
		overrides.ID = id
		rest = strings.Replace(rest, match.String(), "", 1)
	}

	if match, _ := overrideClasses.FindStringMatch(rest); match != nil {
		overrides.Classes = normalizeClasses(match.GroupByNumber(1).String())
	}

	return overrides, nil
}

// normalizeClasses turns ".a .b" style lists into "a b".
func normalizeClasses(list string) string {
	fields := strings.Fields(list)
	classes := fields[:0]
	for _, field := range fields {
		if name := strings.TrimLeft(field, "."); name != "" {
			classes = append(classes, name)
		}
	}
	return strings.Join(classes, " ")
}
