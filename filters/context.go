// Package filters provides the template filters: arithmetic over loosely
// typed numbers, collection filters that probe their elements for
// properties, and the string, date and formatting helpers templates pipe
// values through. Filters are pure functions; everything that depends on
// the environment (locale, time zone, clock) comes from an explicit Context.
package filters

import (
	"time"

	"golang.org/x/text/language"

	"liquidfilters/numeric"
)

// Context carries the settings a filter invocation may depend on. A nil
// *Context behaves like DefaultContext().
type Context struct {
	// Locale drives case mapping and localized month and day names.
	Locale language.Tag
	// Location is the time zone dates are parsed in and rendered for.
	Location *time.Location
	// Now is the clock used by date for "now" and "today".
	Now func() time.Time
	// IntegerDivision makes divided_by truncate when both operands are
	// integers instead of returning a float.
	IntegerDivision bool
}

// DefaultContext returns English, UTC, the wall clock and float division.
func DefaultContext() *Context {
	return &Context{
		Locale:   language.English,
		Location: time.UTC,
		Now:      time.Now,
	}
}

func (c *Context) locale() language.Tag {
	if c == nil || c.Locale == language.Und {
		return language.English
	}
	return c.Locale
}

func (c *Context) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c *Context) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

func (c *Context) numericOptions() numeric.Options {
	if c == nil {
		return numeric.Options{}
	}
	return numeric.Options{IntegerDivision: c.IntegerDivision}
}
