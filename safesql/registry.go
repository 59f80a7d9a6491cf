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
	"crypto/rand"
	"sync"
)

// Token syntax: tokenPrefix followed by a fixed-length random alphanumeric
// suffix, delimited by non-alphanumeric bytes on both sides.
const (
	tokenPrefix           = "SQT"
	defaultTokenSuffixLen = 32
	minTokenSuffixLen     = 16
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// registry maps minted tokens to the trusted fragments they stand for.
// Entries are never evicted: a token stays resolvable for the lifetime of the
// owning Conn so that registered fragments can be reused across statements.
type registry struct {
	mu        sync.RWMutex
	suffixLen int
	fragments map[string]string
}

func newRegistry(suffixLen int) *registry {
	return &registry{suffixLen: suffixLen, fragments: make(map[string]string)}
}

// add mints a fresh token for fragment and records the mapping. Every call
// mints a new token, even for a fragment that was registered before, so
// tokens returned by two registrations are always distinct.
func (r *registry) add(fragment string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		token := tokenPrefix + randAlphanumeric(r.suffixLen)
		if _, taken := r.fragments[token]; taken {
			continue
		}
		r.fragments[token] = fragment
		return token
	}
}

func (r *registry) lookup(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fragment, ok := r.fragments[token]
	return fragment, ok
}

func randAlphanumeric(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("safesql: reading random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}

func isTokenByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// matchToken reports whether a token candidate starts at position i of s.
// It returns the candidate and the number of bytes it spans, or 0 when the
// bytes at i do not form a whole, delimited token. The caller is responsible
// for checking the boundary before i.
func matchToken(s string, i, suffixLen int) (string, int) {
	end := i + len(tokenPrefix) + suffixLen
	if end > len(s) || s[i:i+len(tokenPrefix)] != tokenPrefix {
		return "", 0
	}
	for j := i + len(tokenPrefix); j < end; j++ {
		if !isTokenByte(s[j]) {
			return "", 0
		}
	}
	// A longer alphanumeric run is an ordinary word, not a token.
	if end < len(s) && isTokenByte(s[end]) {
		return "", 0
	}
	return s[i:end], end - i
}
