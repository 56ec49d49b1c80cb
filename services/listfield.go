package services

import "strings"

// ParseList decodes a bracket-and-quote list answer such as "['a', 'b']".
// Empty input yields an empty slice; input not wrapped in brackets is a single
// token. Quoted items may contain commas and escaped quotes; unquoted items
// end at the next comma. Items are trimmed and empty items dropped.
func ParseList(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return []string{s}
	}

	body := s[1 : len(s)-1]
	out := []string{}
	for i := 0; i < len(body); {
		c := body[i]
		if c == ' ' || c == '\t' || c == ',' {
			i++
			continue
		}

		var tok string
		if c == '\'' || c == '"' {
			tok, i = quotedItem(body, i)
		} else {
			end := strings.IndexByte(body[i:], ',')
			if end < 0 {
				end = len(body) - i
			}
			tok, i = body[i:i+end], i+end
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// quotedItem reads the item opened by the quote at body[start] and returns it
// with the index just past its closing quote. A matching quote only closes the
// item when a comma or the end of the list follows it; a backslash escapes the
// next byte. An unterminated item runs to the end of the list.
func quotedItem(body string, start int) (string, int) {
	q := body[start]
	var b strings.Builder
	for i := start + 1; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			b.WriteByte(body[i])
		case c == q && closesItem(body[i+1:]):
			return b.String(), i + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), len(body)
}

func closesItem(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return rest == "" || rest[0] == ','
}

var listEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// FormatList renders tokens in the canonical "['a', 'b']" form, escaping
// backslashes and single quotes so ParseList reads the same tokens back.
func FormatList(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		listEscaper.WriteString(&b, t)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// Primary returns the first token, or "" when there is none.
func Primary(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
