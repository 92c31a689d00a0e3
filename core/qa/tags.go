package qa

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// controlLexer tokenizes control-sequence content. Atoms are any run of
// characters that is not markup punctuation or whitespace, so tag names,
// attribute keys, and values in any script all lex the same way.
var controlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[<>\[\]=/]`},
	{Name: "Atom", Pattern: `[^<>\[\]=/\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// tagForm is the grammar for <...> tags: speaker tags like <Yuki>,
// valued tags like <color=red>, closing tags like </color>, and tags
// with trailing attributes like <font size=20 color=red>.
type tagForm struct {
	Closing bool    `parser:"\"<\" @\"/\"?"`
	Name    string  `parser:"@Atom"`
	Value   *string `parser:"(\"=\" @Atom)?"`
	Attrs   []attr  `parser:"@@* \">\""`
}

// cmdForm is the grammar for [...] commands like [cm] or [wait time=200].
type cmdForm struct {
	Name string `parser:"\"[\" @Atom"`
	Args []attr `parser:"@@* \"]\""`
}

type attr struct {
	Key   string  `parser:"@Atom"`
	Value *string `parser:"(\"=\" @Atom)?"`
}

var tagParser = participle.MustBuild[tagForm](
	participle.Lexer(controlLexer),
	participle.Elide("Whitespace"),
)

var cmdParser = participle.MustBuild[cmdForm](
	participle.Lexer(controlLexer),
	participle.Elide("Whitespace"),
)

// parseControl parses a control entry's content. The second return is
// false when the content is neither a well-formed tag nor command.
func parseControl(content string) (*tagForm, bool) {
	if tag, err := tagParser.ParseString("", content); err == nil {
		return tag, true
	}
	if _, err := cmdParser.ParseString("", content); err == nil {
		return nil, true
	}
	return nil, false
}
