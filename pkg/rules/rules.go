// Package rules defines the lexical grammar of JotDown as an ordered table of
// literal rules with optional lookbehind constraints.
package rules

// Rule names used by the default table. Several rules share a name (for
// example two newline literals) and the parser only ever sees the name.
const (
	BlockGroupStart   = "block_group_start"
	InlineGroupStart  = "inline_group_start"
	BlockGroupEnd     = "block_group_end"
	InlineGroupEnd    = "inline_group_end"
	Newline           = "newline"
	HR                = "hr"
	Heading           = "heading"
	HeadingID         = "heading_id"
	Fences            = "fences"
	Blockquote        = "blockquote"
	Spoiler           = "spoiler"
	Stylesheet        = "stylesheet"
	BlockPlaintext    = "block_plaintext"
	StartComment      = "start_comment"
	EndComment        = "end_comment"
	Strong            = "strong"
	Underline         = "u"
	Mark              = "mark"
	Em                = "em"
	Strike            = "s"
	Sup               = "sup"
	Sub               = "sub"
	Code              = "code"
	InlinePlaintext   = "inline_plaintext"
	Abbr              = "abbr"
	MidAbbr           = "mid_abbr"
	Citation          = "citation"
	Footnote          = "footnote"
	Image             = "image"
	Email             = "email"
	MidLink           = "mid_link"
	LeftBrac          = "left_brac"
	LeftCurly         = "left_curly"
	RightCurly        = "right_curly"
	RightPara         = "right_para"
	RightBrac         = "right_brac"
	TOC               = "toc"
	TableRowStart     = "table_row_start"
	TableRowEnd       = "table_row_terminator"
	Pipe              = "pipe"
	Space             = "space"
	UL                = "ul"
	OL                = "ol"
	TaskItem          = "task_item"
	CheckedTaskItem   = "checked_task_item"
	startOfLineMarker = "\n"
)

// LookBehind constrains what must immediately precede a candidate match.
// Exactly one of Literal or RuleName is set. Literal is compared against the
// text preceding the match; RuleName against the type of the last emitted token.
type LookBehind struct {
	Literal  string `json:"literal,omitempty" yaml:"literal,omitempty"`
	RuleName string `json:"ruleName,omitempty" yaml:"ruleName,omitempty"`
	Negative bool   `json:"negative,omitempty" yaml:"negative,omitempty"`
}

// Rule maps a literal to a token type.
type Rule struct {
	Name       string      `json:"name" yaml:"name"`
	Literal    string      `json:"literal" yaml:"literal"`
	LookBehind *LookBehind `json:"lookBehind,omitempty" yaml:"lookBehind,omitempty"`
}

// After returns a literal lookbehind requiring text to precede the match.
func After(text string) *LookBehind {
	return &LookBehind{Literal: text}
}

// AfterRule returns a lookbehind requiring the last emitted token to be name.
func AfterRule(name string) *LookBehind {
	return &LookBehind{RuleName: name}
}

// Default returns a fresh copy of the JotDown rule table. Order is
// significant: when several rules match the same text the earliest wins.
func Default() []Rule {
	sol := After(startOfLineMarker)
	return []Rule{
		{Name: BlockGroupStart, Literal: "{{", LookBehind: sol},
		{Name: InlineGroupStart, Literal: "{{"},
		{Name: BlockGroupEnd, Literal: "}}", LookBehind: sol},
		{Name: InlineGroupEnd, Literal: "}}"},
		{Name: Newline, Literal: "\n"},
		{Name: Newline, Literal: "\r"},

		{Name: HR, Literal: "---", LookBehind: sol},
		{Name: Heading, Literal: "#6 ", LookBehind: sol},
		{Name: Heading, Literal: "#5 ", LookBehind: sol},
		{Name: Heading, Literal: "#4 ", LookBehind: sol},
		{Name: Heading, Literal: "#3 ", LookBehind: sol},
		{Name: Heading, Literal: "#2 ", LookBehind: sol},
		{Name: Heading, Literal: "#1 ", LookBehind: sol},
		{Name: HeadingID, Literal: "#", LookBehind: AfterRule(Heading)},
		{Name: HeadingID, Literal: "# "},
		{Name: Fences, Literal: "```", LookBehind: sol},
		{Name: Blockquote, Literal: `"""`, LookBehind: sol},
		{Name: Spoiler, Literal: "+++", LookBehind: sol},
		{Name: Stylesheet, Literal: "$$$", LookBehind: sol},
		{Name: BlockPlaintext, Literal: "===", LookBehind: sol},

		{Name: StartComment, Literal: "/*"},
		{Name: EndComment, Literal: "*/"},

		{Name: Strong, Literal: "!!"},
		{Name: Underline, Literal: "__"},
		{Name: Mark, Literal: "||"},
		{Name: Em, Literal: "//"},
		{Name: Strike, Literal: "~~"},
		{Name: Sup, Literal: "^"},
		{Name: Sub, Literal: "_"},
		{Name: Code, Literal: "`"},
		{Name: InlinePlaintext, Literal: "="},

		{Name: Abbr, Literal: ">>"},
		{Name: MidAbbr, Literal: "<<("},
		{Name: Citation, Literal: "(^"},
		{Name: Footnote, Literal: "[^"},
		{Name: Image, Literal: "!["},
		{Name: Email, Literal: "@["},
		{Name: MidLink, Literal: "]("},

		{Name: LeftBrac, Literal: "["},
		{Name: LeftCurly, Literal: "{"},
		{Name: RightCurly, Literal: "}"},
		{Name: RightPara, Literal: ")"},
		{Name: RightBrac, Literal: "]"},

		{Name: TOC, Literal: ":toc:", LookBehind: AfterRule(Newline)},
		{Name: TableRowStart, Literal: "|", LookBehind: sol},
		{Name: TableRowEnd, Literal: "|\n"},
		{Name: Pipe, Literal: "|"},
		{Name: Space, Literal: " ", LookBehind: sol},
		{Name: Space, Literal: " ", LookBehind: After(" ")},
		{Name: UL, Literal: ". ", LookBehind: sol},
		{Name: UL, Literal: ". ", LookBehind: After(" ")},
		{Name: OL, Literal: ") ", LookBehind: sol},
		{Name: OL, Literal: ") ", LookBehind: After(" ")},
		{Name: TaskItem, Literal: "[]", LookBehind: AfterRule(UL)},
		{Name: TaskItem, Literal: "[]", LookBehind: AfterRule(OL)},
		{Name: CheckedTaskItem, Literal: "[x]", LookBehind: AfterRule(UL)},
		{Name: CheckedTaskItem, Literal: "[x]", LookBehind: AfterRule(OL)},
	}
}

// Names returns the distinct rule names of table in first-seen order.
func Names(table []Rule) []string {
	seen := make(map[string]struct{}, len(table))
	names := make([]string, 0, len(table))
	for _, rule := range table {
		if _, ok := seen[rule.Name]; ok {
			continue
		}
		seen[rule.Name] = struct{}{}
		names = append(names, rule.Name)
	}
	return names
}

// Validate reports the first rule whose name-based lookbehind references a
// rule name absent from table.
func Validate(table []Rule) (Rule, bool) {
	known := make(map[string]struct{}, len(table))
	for _, rule := range table {
		known[rule.Name] = struct{}{}
	}
	for _, rule := range table {
		if rule.LookBehind == nil || rule.LookBehind.RuleName == "" {
			continue
		}
		if _, ok := known[rule.LookBehind.RuleName]; !ok {
			return rule, false
		}
	}
	return Rule{}, true
}
