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
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
)

// Conn is a database connection. It owns the trust registry that maps minted
// tokens back to registered fragments; tokens from one Conn mean nothing to
// another. The registry grows for the lifetime of the Conn and is never
// evicted, so a Conn that registers fragments in an unbounded loop grows
// without bound; register fixed fragments once and reuse the tokens.
//
// A Conn is safe for concurrent use.
type Conn struct {
	db       *sql.DB
	dialect  Dialect
	reg      *registry
	patterns []Pattern

	htmlEscape bool
	suffixLen  int

	allowMu   sync.Mutex
	allowlist map[string]string // exact value -> token for its quoted form
}

// Option configures a Conn at open time.
type Option func(*Conn)

// WithPatterns replaces the default denylist validator policy. Passing no
// patterns disables the validator entirely; execution then relies on
// reconstruction quoting alone.
func WithPatterns(patterns ...Pattern) Option {
	return func(c *Conn) { c.patterns = patterns }
}

// WithHTMLEscapedLiterals additionally converts HTML metacharacters in data
// literals to entities before quoting, for applications that echo stored
// values into HTML without escaping on the way out.
func WithHTMLEscapedLiterals() Option {
	return func(c *Conn) { c.htmlEscape = true }
}

// WithTokenSuffixLength sets the length of the random token suffix. Values
// below the minimum of 16 are raised to it.
func WithTokenSuffixLength(n int) Option {
	return func(c *Conn) {
		if n < minTokenSuffixLen {
			n = minTokenSuffixLen
		}
		c.suffixLen = n
	}
}

// Open opens a database with an explicit driver name and dialect. Most
// callers should use the sqlite, mysql or postgres subpackages instead,
// which pick both and register the driver.
func Open(driverName, dataSourceName string, dialect Dialect, opts ...Option) (*Conn, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, &DriverError{Op: "open", Err: err}
	}
	return OpenDB(db, dialect, opts...), nil
}

// OpenDB wraps an already opened database handle.
func OpenDB(db *sql.DB, dialect Dialect, opts ...Option) *Conn {
	c := &Conn{
		db:        db,
		dialect:   dialect,
		patterns:  DefaultPatterns(),
		suffixLen: defaultTokenSuffixLen,
		allowlist: make(map[string]string),
	}
	for _, o := range opts {
		o(c)
	}
	c.reg = newRegistry(c.suffixLen)
	return c
}

// Close closes the database handle. Registered tokens become meaningless.
func (c *Conn) Close() error { return c.db.Close() }

// Dialect returns the dialect the Conn was opened with.
func (c *Conn) Dialect() Dialect { return c.dialect }

// Register records text as trusted SQL structure and returns the opaque
// token standing for it, padded with one space on each side so that naive
// concatenation keeps tokens delimited. Only an untyped string constant can
// be passed, so every registered fragment is embedded in program source and
// cannot be attacker influenced.
func (c *Conn) Register(text stringConstant) string {
	return " " + c.reg.add(string(text)) + " "
}

// RegisterTrusted is the runtime counterpart of Register for TrustedStmt
// values, typically promoted from a trusted query store through the
// uncheckedconversions package. A TrustedStmt that was not produced by
// Trusted or a conversion is rejected with ErrProvenance before any registry
// mutation.
func (c *Conn) RegisterTrusted(t TrustedStmt) (string, error) {
	if !t.ok {
		return "", ErrProvenance
	}
	return " " + c.reg.add(t.s) + " ", nil
}

// RegisterInt registers value as a bare, unquoted integer. The value may be
// any type whose printed form parses as a signed 64-bit integer; anything
// else is rejected with ErrNotInteger.
func (c *Conn) RegisterInt(value any) (string, error) {
	s := fmt.Sprint(value)
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return "", ErrNotInteger
	}
	return " " + c.reg.add(s) + " ", nil
}

// AddAllowlist records values that Allowlist may later emit as quoted
// literals. Each value is escaped and quoted for the dialect at
// registration time.
func (c *Conn) AddAllowlist(values ...string) {
	c.allowMu.Lock()
	defer c.allowMu.Unlock()
	for _, v := range values {
		if _, ok := c.allowlist[v]; ok {
			continue
		}
		c.allowlist[v] = c.reg.add(quoteLiteral(v, c.dialect, c.htmlEscape))
	}
}

// Allowlist returns the padded token for an exact allowlisted value, or
// ErrValueDenied. It lets a runtime value pass as trusted precisely because
// its full content was fixed in advance by AddAllowlist.
func (c *Conn) Allowlist(value string) (string, error) {
	c.allowMu.Lock()
	token, ok := c.allowlist[value]
	c.allowMu.Unlock()
	if !ok {
		return "", ErrValueDenied
	}
	return " " + token + " ", nil
}

// IsAllowlisted reports whether value was added with AddAllowlist.
func (c *Conn) IsAllowlisted(value string) bool {
	c.allowMu.Lock()
	defer c.allowMu.Unlock()
	_, ok := c.allowlist[value]
	return ok
}

// ActualSQL returns the statement that would be executed for the composed
// string. It is pure and total: it performs no I/O, never fails, and is safe
// to call for inspection and logging even on malicious input.
func (c *Conn) ActualSQL(composed string) string {
	return reconstruct(composed, c.reg, c.dialect, c.htmlEscape)
}

// Validate applies the Conn's denylist policy to an already reconstructed
// statement. Execute and the query methods call it before contacting the
// driver; it is exported so policies can be exercised directly.
func (c *Conn) Validate(sql string) error {
	return validate(sql, c.dialect.BackslashEscapes(), c.patterns)
}

// Execute reconstructs, validates and runs the composed statement without
// returning rows.
func (c *Conn) Execute(composed string) error {
	return c.ExecuteContext(context.Background(), composed)
}

// ExecuteContext is Execute with a caller-supplied context.
func (c *Conn) ExecuteContext(ctx context.Context, composed string) error {
	stmt := c.ActualSQL(composed)
	if err := c.Validate(stmt); err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return &DriverError{Op: "exec", Err: err}
	}
	return nil
}

// Rows reconstructs, validates and runs the composed statement, returning
// every result row.
func (c *Conn) Rows(composed string) ([]Row, error) {
	return c.RowsContext(context.Background(), composed)
}

// RowsContext is Rows with a caller-supplied context.
func (c *Conn) RowsContext(ctx context.Context, composed string) ([]Row, error) {
	var rows []Row
	if err := c.IterateContext(ctx, composed, func(r Row) bool {
		rows = append(rows, r)
		return true
	}); err != nil {
		return nil, err
	}
	return rows, nil
}

// Iterate streams result rows to fn, stopping early when fn returns false.
func (c *Conn) Iterate(composed string, fn func(Row) bool) error {
	return c.IterateContext(context.Background(), composed, fn)
}

// IterateContext is Iterate with a caller-supplied context.
func (c *Conn) IterateContext(ctx context.Context, composed string, fn func(Row) bool) error {
	stmt := c.ActualSQL(composed)
	if err := c.Validate(stmt); err != nil {
		return err
	}
	rs, err := c.db.QueryContext(ctx, stmt)
	if err != nil {
		return &DriverError{Op: "query", Err: err}
	}
	defer rs.Close()

	columns, err := rs.Columns()
	if err != nil {
		return &DriverError{Op: "query", Err: err}
	}
	for rs.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return &DriverError{Op: "scan", Err: err}
		}
		if !fn(newRow(columns, values)) {
			break
		}
	}
	if err := rs.Err(); err != nil {
		return &DriverError{Op: "query", Err: err}
	}
	return nil
}
