package asm

import "github.com/alecthomas/participle/v2/lexer"

// Lexer tokenizes the textual assembly surface: one stateful ruleset, no
// nested lexer states, since the grammar never needs to switch modes (no
// string literals, no template holes).
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},

		// Temporaries (t0, t17, ...) and labels (L0, L3, ...) are lexed as
		// distinct token kinds from plain identifiers so the parser can tell
		// "t0 = ..." (an Assign) apart from "add(...)" (a Call) on sight.
		{"Tmp", `t[0-9]+`, nil},
		{"Label", `L[0-9]+`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Punct", `[{}()\[\]:;,.!&*=]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
