package filters

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"github.com/ncruces/go-strftime"
	"golang.org/x/text/language"

	"liquidfilters/value"
)

// Date formats input as a date. Time values are used directly, Int values
// are Unix seconds, "now" and "today" read the context clock and other
// strings are parsed in the context location. format is a strftime pattern
// when it contains '%' and a Go reference layout otherwise; month and day
// names follow the context locale. Input that is not a date is returned in
// its string form, as is any input when format is empty.
func Date(ctx *Context, input value.Value, format string) value.Value {
	if input.IsNull() {
		return value.Null()
	}
	if format == "" {
		return value.String(input.String())
	}
	t, ok := toTime(ctx, input)
	if !ok {
		return value.String(input.String())
	}
	return value.String(formatTime(t, format, mondayLocale(ctx.locale())))
}

func toTime(ctx *Context, v value.Value) (time.Time, bool) {
	loc := ctx.location()
	switch v.Kind() {
	case value.KindTime:
		t, _ := v.AsTime()
		return t.In(loc), true
	case value.KindInt:
		sec, _ := v.AsInt()
		return time.Unix(sec, 0).In(loc), true
	case value.KindString:
		s, _ := v.AsString()
		s = strings.TrimSpace(s)
		switch strings.ToLower(s) {
		case "":
			return time.Time{}, false
		case "now", "today":
			return ctx.now(), true
		}
		t, err := dateparse.ParseIn(s, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t.In(loc), true
	}
	return time.Time{}, false
}

func formatTime(t time.Time, format string, locale monday.Locale) string {
	if !strings.Contains(format, "%") {
		return monday.Format(t, format, locale)
	}
	layout, err := strftime.Layout(format)
	if err != nil {
		// Directives without a Go layout equivalent (%j, %U, ...) are
		// rendered untranslated.
		return strftime.Format(format, t)
	}
	return monday.Format(t, layout, locale)
}

var mondayLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en-GB": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr-CA": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt-BR": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl-BE": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"cs":    monday.LocaleCsCZ,
	"da":    monday.LocaleDaDK,
	"fi":    monday.LocaleFiFI,
	"sv":    monday.LocaleSvSE,
	"nb":    monday.LocaleNbNO,
	"nn":    monday.LocaleNnNO,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh-TW": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"tr":    monday.LocaleTrTR,
	"uk":    monday.LocaleUkUA,
	"el":    monday.LocaleElGR,
	"ro":    monday.LocaleRoRO,
	"hu":    monday.LocaleHuHU,
}

// mondayLocale picks the monday locale for tag, preferring an explicit
// region and falling back to the base language, then US English.
func mondayLocale(tag language.Tag) monday.Locale {
	base, _ := tag.Base()
	if region, conf := tag.Region(); conf == language.Exact {
		if l, ok := mondayLocales[base.String()+"-"+region.String()]; ok {
			return l
		}
	}
	if l, ok := mondayLocales[base.String()]; ok {
		return l
	}
	return monday.LocaleEnUS
}
