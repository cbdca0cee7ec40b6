package edit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/gorazor/pkg/syntax"
)

func rejectAll(Span, Change) Status {
	return Rejected
}

// autoComplete rejects, and flags a line break typed at the end of an
// unterminated block so an editor can close it.
func autoComplete(span Span, change Change) Status {
	if change.IsInsert() && change.Start == span.Start+len(span.Content) &&
		strings.ContainsAny(change.NewText, "\r\n") {
		return Rejected | AutoCompleteBlock
	}
	return Rejected
}

// codeBlockStructural holds the characters that can move a token boundary
// in a code block body, and with it the brace that closes the body.
const codeBlockStructural = "{}\"'\\/*#$@<\r\n"

// codeBlock takes a change inside a code-block directive body when neither
// the removed nor the inserted text holds a structural character.
func codeBlock(span Span, change Change) Status {
	if change.OldLength == 0 && change.NewText == "" {
		return Rejected
	}
	rel := change.Start - span.Start
	old := span.Content[rel : rel+change.OldLength]
	if strings.ContainsAny(old, codeBlockStructural) || strings.ContainsAny(change.NewText, codeBlockStructural) {
		return Rejected
	}
	// Text typed next to a delimiter can split or extend it ("@*", "/*").
	before, _ := utf8.DecodeLastRuneInString(span.Content[:rel])
	after, _ := utf8.DecodeRuneInString(span.Content[rel+change.OldLength:])
	if strings.ContainsRune(codeBlockStructural, before) || strings.ContainsRune(codeBlockStructural, after) {
		return Rejected
	}
	return Accepted
}

// implicitExpression grows or shrinks an identifier chain such as
// "user.Name" one keystroke at a time.
func implicitExpression(span Span, change Change) Status {
	if span.Context.Accepted == syntax.AcceptAny {
		return Rejected
	}

	rel := change.Start - span.Start
	if rel == 0 {
		return Rejected
	}
	// Inside code a chain may end in a dot; whether it keeps it depends on
	// the text after the span, so changes at that end re-parse.
	if strings.HasSuffix(span.Content, ".") && change.End() == span.Start+len(span.Content) {
		return Rejected
	}

	var status Status
	switch {
	case change.IsInsert():
		status = implicitInsert(span, change, rel)
	case change.IsDelete():
		status = implicitDelete(span, change, rel)
	case change.IsReplace():
		old := span.Content[rel : rel+change.OldLength]
		if isIdentifierRun(old) && isIdentifierRun(change.NewText) {
			status = Accepted
		} else {
			status = Rejected
		}
	default:
		return Rejected
	}

	if !status.Has(Accepted) {
		return status
	}
	edited := span.Edited(change)
	if digitStartsMember(edited) {
		return Rejected
	}
	// "await x" and "if" start different constructs than plain identifiers.
	word, editedWord := leadingWord(span.Content), leadingWord(edited)
	if word != editedWord && (span.Context.Handler.HasKeyword(word) || span.Context.Handler.HasKeyword(editedWord)) {
		return Rejected | SpanContextChanged
	}
	return status
}

// digitStartsMember reports whether a member name in the chain starts with
// a digit, which the code tokenizer reads as a number.
func digitStartsMember(chain string) bool {
	prev := rune(0)
	for _, r := range chain {
		if unicode.IsDigit(r) && !isIdentPart(prev) {
			return true
		}
		prev = r
	}
	return false
}

func implicitInsert(span Span, change Change, rel int) Status {
	before, _ := utf8.DecodeLastRuneInString(span.Content[:rel])
	atEnd := rel == len(span.Content)

	if change.NewText == "." {
		if !atEnd || !(isIdentPart(before) || before == ')' || before == ']') {
			return Rejected
		}
		if span.Context.Handler.AcceptTrailingDot {
			return Accepted
		}
		return Accepted | Provisional
	}

	if !isIdentifierRun(change.NewText) {
		return Rejected
	}
	if before == '.' || isIdentPart(before) {
		return Accepted
	}
	return Rejected
}

func implicitDelete(span Span, change Change, rel int) Status {
	old := span.Content[rel : rel+change.OldLength]
	for _, r := range old {
		if r != '.' && !isIdentPart(r) {
			return Rejected
		}
	}

	edited := span.Edited(change)
	if strings.Contains(edited, "..") {
		return Rejected
	}
	last, _ := utf8.DecodeLastRuneInString(edited[:rel])
	switch {
	case last == '.':
		return Accepted | Provisional
	case isIdentPart(last):
		return Accepted
	}
	return Rejected
}

// leadingWord returns the identifier the text starts with.
func leadingWord(text string) string {
	end := strings.IndexFunc(text, func(r rune) bool { return !isIdentPart(r) })
	if end < 0 {
		return text
	}
	return text[:end]
}

func isIdentifierRun(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
