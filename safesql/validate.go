// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// 	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package safesql

import "strings"

// SegmentKind distinguishes statement text outside string literals from the
// content of the literals themselves.
type SegmentKind int

const (
	// Structure is statement text outside any string literal.
	Structure SegmentKind = iota
	// Literal is the content of one single-quoted literal, quotes stripped.
	Literal
)

// Segment is one run of a scanned statement.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Statement is the quote-aware decomposition of a reconstructed SQL
// statement, handed to denylist patterns.
type Statement struct {
	SQL      string
	Segments []Segment
	// Balanced is false when the statement ends inside an open literal.
	Balanced bool
}

// Structural reports whether the statement has any non-whitespace text
// outside its string literals. A statement that is a single bare literal is
// not structural; the validator leaves it for the driver to refuse.
func (s Statement) Structural() bool {
	for _, seg := range s.Segments {
		if seg.Kind == Structure && strings.TrimSpace(seg.Text) != "" {
			return true
		}
	}
	return false
}

// Pattern is one predicate of the denylist policy applied before execution.
// Patterns are deliberately conservative: they may refuse statements that
// are already safely quoted.
type Pattern struct {
	Name  string
	Match func(Statement) bool
}

// DefaultPatterns returns the default denylist policy, in evaluation order:
//
//   - unterminated-literal: the statement ends inside an open string literal.
//   - stacked-statement: a literal smuggles a statement separator into a
//     statement that has trusted structure.
//   - comment-in-literal: a literal smuggles a comment introducer into a
//     statement that has trusted structure.
//   - comment-after-literal: a comment introducer immediately follows a
//     closing quote, which on some backends truncates the statement.
//
// Replace the policy with WithPatterns.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:  "unterminated-literal",
			Match: func(st Statement) bool { return !st.Balanced },
		},
		{
			Name: "stacked-statement",
			Match: func(st Statement) bool {
				return literalContains(st, ";")
			},
		},
		{
			Name: "comment-in-literal",
			Match: func(st Statement) bool {
				return literalContains(st, "--") || literalContains(st, "/*")
			},
		},
		{
			Name: "comment-after-literal",
			Match: func(st Statement) bool {
				for i, seg := range st.Segments {
					if seg.Kind != Structure || i == 0 || st.Segments[i-1].Kind != Literal {
						continue
					}
					if hasCommentPrefix(seg.Text) {
						return true
					}
				}
				return false
			},
		},
	}
}

// literalContains reports whether any literal of a structural statement
// contains sub. Non-structural statements (a single bare literal) never
// match: they carry no trusted SQL for the smuggled text to subvert.
func literalContains(st Statement, sub string) bool {
	if !st.Structural() {
		return false
	}
	for _, seg := range st.Segments {
		if seg.Kind == Literal && strings.Contains(seg.Text, sub) {
			return true
		}
	}
	return false
}

func hasCommentPrefix(s string) bool {
	return strings.HasPrefix(s, "--") || strings.HasPrefix(s, "/*") || strings.HasPrefix(s, "#")
}

// scanStatement splits sql into alternating structure and literal segments.
// A doubled quote inside a literal is the escaped quote character; when
// backslashEscapes is set a backslash escapes the byte that follows it.
func scanStatement(sql string, backslashEscapes bool) Statement {
	st := Statement{SQL: sql, Balanced: true}
	var cur strings.Builder
	flush := func(kind SegmentKind) {
		if kind == Structure && cur.Len() == 0 {
			return
		}
		st.Segments = append(st.Segments, Segment{Kind: kind, Text: cur.String()})
		cur.Reset()
	}

	inLiteral := false
	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case !inLiteral && c == '\'':
			flush(Structure)
			inLiteral = true
			i++
		case !inLiteral:
			cur.WriteByte(c)
			i++
		case backslashEscapes && c == '\\' && i+1 < len(sql):
			cur.WriteString(sql[i : i+2])
			i += 2
		case c == '\'' && i+1 < len(sql) && sql[i+1] == '\'':
			cur.WriteString("''")
			i += 2
		case c == '\'':
			flush(Literal)
			inLiteral = false
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if inLiteral {
		st.Balanced = false
		flush(Literal)
	} else {
		flush(Structure)
	}
	return st
}

// validate applies patterns in order and reports the first match.
func validate(sql string, backslashEscapes bool, patterns []Pattern) error {
	st := scanStatement(sql, backslashEscapes)
	for _, p := range patterns {
		if p.Match(st) {
			return &SecurityPatternError{Pattern: p.Name}
		}
	}
	return nil
}
