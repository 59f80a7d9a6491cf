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

import (
	"strings"

	"github.com/google/safehtml"
)

// reconstruct turns a composed string into the final SQL statement. It is a
// pure function over the registry snapshot: registered tokens are emitted as
// their trusted fragments verbatim, every other span is escaped and wrapped
// in a single quoted literal, and each emitted piece is followed by one
// space. It never fails; token-shaped spans that do not resolve in the
// registry degrade to data.
func reconstruct(composed string, reg *registry, d Dialect, htmlEscape bool) string {
	var out, span strings.Builder
	sawToken := false

	flush := func() {
		raw := strings.TrimSpace(span.String())
		span.Reset()
		if raw == "" {
			// Whitespace-only spans are token padding.
			return
		}
		out.WriteString(quoteLiteral(raw, d, htmlEscape))
		out.WriteByte(' ')
	}

	for i := 0; i < len(composed); {
		if i == 0 || !isTokenByte(composed[i-1]) {
			if token, n := matchToken(composed, i, reg.suffixLen); n > 0 {
				if fragment, ok := reg.lookup(token); ok {
					flush()
					out.WriteString(fragment)
					out.WriteByte(' ')
					sawToken = true
				} else {
					// Forged, truncated or cross-connection token: data.
					span.WriteString(token)
				}
				i += n
				continue
			}
		}
		span.WriteByte(composed[i])
		i++
	}

	if !sawToken {
		// No trusted structure at all: the entire input is one literal,
		// empty input included.
		raw := strings.TrimSpace(span.String())
		return quoteLiteral(raw, d, htmlEscape) + " "
	}
	flush()
	return out.String()
}

func quoteLiteral(raw string, d Dialect, htmlEscape bool) string {
	if htmlEscape {
		raw = safehtml.HTMLEscaped(raw).String()
	}
	return "'" + d.Escape(raw) + "'"
}
