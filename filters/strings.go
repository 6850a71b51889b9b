package filters

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"liquidfilters/value"
)

var (
	htmlTagPattern = regexp.MustCompile(`<.*?>`)
	newlinePattern = regexp.MustCompile(`\r\n|\r|\n`)
	wordPattern    = regexp.MustCompile(`\S+`)
)

// text returns the string a string filter operates on. Strings are used as
// is and scalars through their string form; Null, sequences, records and
// opaque values are not text.
func text(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return s, true
	case value.KindBool, value.KindInt, value.KindFloat, value.KindDecimal, value.KindTime:
		return v.String(), true
	}
	return "", false
}

// mapText applies fn to the text of input and passes everything else
// through.
func mapText(input value.Value, fn func(string) string) value.Value {
	s, ok := text(input)
	if !ok {
		return input
	}
	return value.String(fn(s))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Downcase lower-cases input using the case rules of the context locale.
func Downcase(ctx *Context, input value.Value) value.Value {
	return mapText(input, cases.Lower(ctx.locale()).String)
}

// Upcase upper-cases input using the case rules of the context locale.
func Upcase(ctx *Context, input value.Value) value.Value {
	return mapText(input, cases.Upper(ctx.locale()).String)
}

// Capitalize title-cases every word of input. Words written entirely in
// upper case are taken for acronyms and kept. Blank input is returned as is.
func Capitalize(ctx *Context, input value.Value) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) {
			return s
		}
		title := cases.Title(ctx.locale())
		return wordPattern.ReplaceAllStringFunc(s, func(w string) string {
			if acronym(w) {
				return w
			}
			return title.String(w)
		})
	})
}

// acronym reports whether w has letters and all of them are upper case.
func acronym(w string) bool {
	letters := false
	for _, r := range w {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters = true
	}
	return letters
}

// Escape replaces the HTML special characters of input with entities.
func Escape(input value.Value) value.Value {
	return mapText(input, html.EscapeString)
}

// Truncate shortens input to at most length characters, suffix included.
// Input no longer than length is returned unchanged. The cut point is
// length minus the length of suffix, never below zero.
func Truncate(input value.Value, length int, suffix string) value.Value {
	return mapText(input, func(s string) string {
		runes := []rune(s)
		if len(runes) == 0 || len(runes) <= length {
			return s
		}
		cut := max(length-len([]rune(suffix)), 0)
		return string(runes[:cut]) + suffix
	})
}

// TruncateWords keeps the first words space separated words of input and
// appends suffix when any were dropped.
func TruncateWords(input value.Value, words int, suffix string) value.Value {
	return mapText(input, func(s string) string {
		if s == "" {
			return s
		}
		list := strings.Split(s, " ")
		words = max(words, 0)
		if len(list) <= words {
			return s
		}
		return strings.Join(list[:words], " ") + suffix
	})
}

// StripHTML removes everything that looks like a tag from input.
func StripHTML(input value.Value) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) {
			return s
		}
		return htmlTagPattern.ReplaceAllString(s, "")
	})
}

// StripNewlines removes every line break from input.
func StripNewlines(input value.Value) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) {
			return s
		}
		return newlinePattern.ReplaceAllString(s, "")
	})
}

// NewlineToBr inserts an HTML line break in front of every newline.
func NewlineToBr(input value.Value) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) {
			return s
		}
		return newlinePattern.ReplaceAllString(s, "<br />${0}")
	})
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &MalformedPatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Replace substitutes every match of the regular expression pattern in
// input with replacement, which may refer to groups as $1 or ${name}.
// Empty input or an empty pattern leaves input unchanged.
func Replace(input value.Value, pattern, replacement string) (value.Value, error) {
	s, ok := text(input)
	if !ok || s == "" || pattern == "" {
		return input, nil
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Null(), err
	}
	return value.String(re.ReplaceAllString(s, replacement)), nil
}

// ReplaceFirst is Replace limited to the first match.
func ReplaceFirst(input value.Value, pattern, replacement string) (value.Value, error) {
	s, ok := text(input)
	if !ok || s == "" || pattern == "" {
		return input, nil
	}
	re, err := compilePattern(pattern)
	if err != nil {
		return value.Null(), err
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return value.String(s), nil
	}
	expanded := re.ExpandString(nil, replacement, s, loc)
	return value.String(s[:loc[0]] + string(expanded) + s[loc[1]:]), nil
}

// Remove deletes every occurrence of the literal substring sub.
func Remove(input value.Value, sub string) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) || sub == "" {
			return s
		}
		return strings.ReplaceAll(s, sub, "")
	})
}

// RemoveFirst deletes the first occurrence of the literal substring sub.
func RemoveFirst(input value.Value, sub string) value.Value {
	return mapText(input, func(s string) string {
		if blank(s) || sub == "" {
			return s
		}
		return strings.Replace(s, sub, "", 1)
	})
}

// Append adds suffix to the end of input.
func Append(input value.Value, suffix string) value.Value {
	return mapText(input, func(s string) string { return s + suffix })
}

// Prepend adds prefix to the start of input.
func Prepend(input value.Value, prefix string) value.Value {
	return mapText(input, func(s string) string { return prefix + s })
}
