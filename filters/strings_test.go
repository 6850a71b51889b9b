package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"liquidfilters/value"
)

func str(s string) value.Value { return value.String(s) }

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  value.Value
		length int
		suffix string
		want   value.Value
	}{
		{"cut point leaves room for suffix", str("1234567890"), 5, "...", str("12...")},
		{"shorter than length", str("ab"), 5, "...", str("ab")},
		{"exact length", str("abcde"), 5, "...", str("abcde")},
		{"suffix longer than length", str("1234567890"), 2, "...", str("...")},
		{"custom suffix", str("1234567890"), 6, "!", str("12345!")},
		{"counts characters", str("ééééééé"), 4, "..", str("éé..")},
		{"empty", str(""), 0, "...", str("")},
		{"null", value.Null(), 5, "...", value.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.length, tt.suffix))
		})
	}
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, str("one two..."), TruncateWords(str("one two three"), 2, "..."))
	assert.Equal(t, str("one two"), TruncateWords(str("one two"), 2, "..."))
	assert.Equal(t, str("..."), TruncateWords(str("one two"), -1, "..."))
	assert.True(t, TruncateWords(value.Null(), 2, "...").IsNull())
}

func TestCaseFilters(t *testing.T) {
	ctx := DefaultContext()

	assert.Equal(t, str("hello"), Downcase(ctx, str("HeLLo")))
	assert.Equal(t, str("HELLO"), Upcase(ctx, str("HeLLo")))
	assert.Equal(t, str("Hello World"), Capitalize(ctx, str("hello world")))
	assert.Equal(t, str("  "), Capitalize(ctx, str("  ")))
	assert.Equal(t, str("NASA Rocks"), Capitalize(ctx, str("NASA rocks")))
	assert.Equal(t, str("Hello  World 42"), Capitalize(ctx, str("hELLO  world 42")))
	assert.Equal(t, str("5"), Upcase(ctx, value.Int(5)))
	assert.True(t, Downcase(ctx, value.Null()).IsNull())

	seq := value.Seq(str("A"))
	assert.True(t, value.Equal(seq, Downcase(ctx, seq)))

	turkish := DefaultContext()
	turkish.Locale = language.Turkish
	assert.Equal(t, str("İSTANBUL"), Upcase(turkish, str("istanbul")))
}

func TestDowncase_Idempotent(t *testing.T) {
	ctx := DefaultContext()
	for _, s := range []string{"", "ABC", "Straße", "ÀÉÎ", "İstanbul", "mixed Case 123"} {
		once := Downcase(ctx, str(s))
		twice := Downcase(ctx, once)
		assert.Equal(t, once, twice, "downcase(%q)", s)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, str("&lt;a href=&#34;x&#34;&gt;&amp;&lt;/a&gt;"), Escape(str(`<a href="x">&</a>`)))
	assert.Equal(t, str(""), Escape(str("")))
	assert.True(t, Escape(value.Null()).IsNull())
}

func TestStripAndNewlines(t *testing.T) {
	assert.Equal(t, str("Hi there"), StripHTML(str("<p>Hi <b>there</b></p>")))
	assert.Equal(t, str("abc"), StripNewlines(str("a\nb\r\nc")))
	assert.Equal(t, str("abc"), StripNewlines(str("a\rb\r\nc")))
	assert.Equal(t, str("a<br />\rb<br />\r\nc"), NewlineToBr(str("a\rb\r\nc")))
	assert.Equal(t, str("a<br />\nb<br />\r\nc"), NewlineToBr(str("a\nb\r\nc")))
	assert.Equal(t, str(" "), StripHTML(str(" ")))
}

func TestReplace(t *testing.T) {
	got, err := Replace(str("hello world"), "o", "0")
	require.NoError(t, err)
	assert.Equal(t, str("hell0 w0rld"), got)

	got, err = Replace(str("John Smith"), `(\w+) (\w+)`, "$2 $1")
	require.NoError(t, err)
	assert.Equal(t, str("Smith John"), got)

	got, err = ReplaceFirst(str("aaa"), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, str("baa"), got)

	got, err = ReplaceFirst(str("x1 y2"), `([a-z])(\d)`, "${2}${1}")
	require.NoError(t, err)
	assert.Equal(t, str("1x y2"), got)

	got, err = ReplaceFirst(str("abc"), "z", "y")
	require.NoError(t, err)
	assert.Equal(t, str("abc"), got)

	got, err = Replace(str(""), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, str(""), got)

	got, err = Replace(str("abc"), "", "b")
	require.NoError(t, err)
	assert.Equal(t, str("abc"), got)

	got, err = Replace(value.Null(), "a", "b")
	require.NoError(t, err)
	assert.True(t, got.IsNull())
}

func TestReplace_MalformedPattern(t *testing.T) {
	for _, fn := range []func(value.Value, string, string) (value.Value, error){Replace, ReplaceFirst} {
		_, err := fn(str("abc"), "(", "x")
		assert.ErrorIs(t, err, ErrMalformedPattern)
		var mpe *MalformedPatternError
		require.ErrorAs(t, err, &mpe)
		assert.Equal(t, "(", mpe.Pattern)
	}
}

func TestRemove(t *testing.T) {
	assert.Equal(t, str("abc"), Remove(str("a.b.c"), "."))
	assert.Equal(t, str("ab.c"), RemoveFirst(str("a.b.c"), "."))
	assert.Equal(t, str("abc"), Remove(str("abc"), ""))
	assert.True(t, Remove(value.Null(), "a").IsNull())
}

func TestAppendPrepend(t *testing.T) {
	assert.Equal(t, str("ab"), Append(str("a"), "b"))
	assert.Equal(t, str("ba"), Prepend(str("a"), "b"))
	assert.Equal(t, str("1px"), Append(value.Int(1), "px"))
	assert.True(t, Append(value.Null(), "b").IsNull())
	assert.True(t, Prepend(value.Null(), "b").IsNull())
}
