// Package langdetect guesses the language of opaque element bodies, such as
// a <script> whose content the template parser does not interpret.
// It uses go-enry for content the type attribute does not settle.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by the detectors.
const (
	langJavaScript = "javascript"
	langTypeScript = "typescript"
	langJSON       = "json"
	langHTML       = "html"
	langCSS        = "css"
	langTemplate   = "template"
	langText       = "text"
)

// classifierCandidates are the languages that plausibly end up inside a
// script element.
var classifierCandidates = []string{
	"JavaScript", "TypeScript", "JSON", "HTML", "CSS", "CoffeeScript", "Handlebars", "GraphQL",
}

// DetectScript returns the language of an opaque <script> body. typeAttr is
// the element's type attribute value, or "" when it has none. A script
// without a type is JavaScript unless its body clearly says otherwise.
func DetectScript(typeAttr string, body []byte) string {
	mime := strings.ToLower(strings.TrimSpace(typeAttr))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch mime {
	case "module", "text/javascript", "application/javascript", "text/ecmascript", "application/ecmascript":
		return langJavaScript
	case "application/json", "application/ld+json", "importmap", "speculationrules":
		return langJSON
	case "text/typescript", "application/typescript":
		return langTypeScript
	case "text/template", "text/x-template", "text/x-handlebars-template", "text/ng-template":
		return langTemplate
	}

	lang := Detect(body)
	if mime == "" && lang == langText {
		return langJavaScript
	}
	return lang
}

// Detect returns the detected language for content.
// Returns "text" if detection fails or confidence is low.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return langText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	switch {
	case isJSON(trimmed):
		return langJSON
	case isHTML(trimmed):
		return langHTML
	case isJavaScript(string(content)):
		return langJavaScript
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

func isJSON(trimmed []byte) bool {
	return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`)) &&
		!bytes.Contains(trimmed, []byte("=>")) && !bytes.Contains(trimmed, []byte("function"))
}

func isHTML(trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("<")) && bytes.Contains(trimmed, []byte("</"))
}

func isJavaScript(content string) bool {
	for _, marker := range []string{"=>", "function", "const ", "let ", "var ", "console.", "document.", "window."} {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// normalize converts go-enry language names to lower-case identifiers.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "CSS":
		return langCSS
	}
	return strings.ToLower(lang)
}
