// Package locale isolates the host locale and time zone behind a Provider, so
// the date and number formatters can be tested against fixed rules.
//
// The default implementation maps BCP 47 tags onto golang.org/x/text for
// number grouping and onto monday locales for localized month and day names.
package locale

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sambeau/shapekit/pkg/errors"
)

// Provider supplies the locale-dependent primitives used by the formatters.
type Provider interface {
	// Location is the time zone dates are read in.
	Location() *time.Location
	// DayFirst reports whether ambiguous numeric dates read day before month.
	DayFirst() bool
	// FormatDecimal renders v with locale grouping and decimal symbols.
	FormatDecimal(v float64, opts ...number.Option) string
	// FormatDate renders t with a Go layout, localizing month and day names.
	FormatDate(t time.Time, layout string) string
	// DateLayout returns the Go layout for a named style
	// (short, medium, long, full).
	DateLayout(style string) (string, bool)
}

// Locale is the standard Provider.
type Locale struct {
	tag      language.Tag
	printer  *message.Printer
	monday   monday.Locale
	loc      *time.Location
	dayFirst bool
}

var _ Provider = (*Locale)(nil)

// New builds a Locale from a BCP 47 tag such as "en-US" and a time zone name.
// The zone may be an IANA name, "UTC", or "Local"/"" for the host zone.
func New(tag, zone string) (*Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, errors.New("LOCALE-0001", map[string]any{"Locale": tag}).WithCause(err)
	}

	loc, err := LoadZone(zone)
	if err != nil {
		return nil, err
	}

	return &Locale{
		tag:      t,
		printer:  message.NewPrinter(t),
		monday:   mondayLocale(tag),
		loc:      loc,
		dayFirst: dayFirst(t),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(tag, zone string) *Locale {
	l, err := New(tag, zone)
	if err != nil {
		panic(err)
	}
	return l
}

// Default returns en-US in the host time zone.
func Default() *Locale {
	return MustNew("en-US", "Local")
}

// LoadZone resolves a time zone name. "" and "Local" mean the host zone.
func LoadZone(zone string) (*time.Location, error) {
	switch zone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, errors.New("LOCALE-0002", map[string]any{"Zone": zone}).WithCause(err)
	}
	return loc, nil
}

// Tag returns the parsed language tag.
func (l *Locale) Tag() language.Tag { return l.tag }

// Location implements Provider.
func (l *Locale) Location() *time.Location { return l.loc }

// DayFirst implements Provider.
func (l *Locale) DayFirst() bool { return l.dayFirst }

// FormatDecimal implements Provider.
func (l *Locale) FormatDecimal(v float64, opts ...number.Option) string {
	return l.printer.Sprintf("%v", number.Decimal(v, opts...))
}

// FormatDate implements Provider.
func (l *Locale) FormatDate(t time.Time, layout string) string {
	return monday.Format(t.In(l.loc), layout, l.monday)
}

// DateLayout implements Provider.
func (l *Locale) DateLayout(style string) (string, bool) {
	return dateLayoutForStyle(style, l.monday)
}

// dayFirst reports whether the tag's region writes day before month.
// Only the United States and a few of its neighbours put the month first.
func dayFirst(t language.Tag) bool {
	region, _ := t.Region()
	switch region.String() {
	case "US", "PH", "FM", "MH", "PW":
		return false
	}
	return true
}

// mondayLocale maps a locale string to a monday.Locale for date formatting.
// Supports common locale codes with fallbacks.
func mondayLocale(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))

	if loc, ok := mondayLocales[locale]; ok {
		return loc
	}

	// Try just the language part
	if lang, _, ok := strings.Cut(locale, "_"); ok {
		if loc, ok := mondayLocales[lang]; ok {
			return loc
		}
	}

	return monday.LocaleEnUS
}

var mondayLocales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"fr_ca": monday.LocaleFrCA,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_pt": monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"nl_nl": monday.LocaleNlNL,
	"nl_be": monday.LocaleNlBE,
	"ru":    monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"sv":    monday.LocaleSvSE,
	"ja":    monday.LocaleJaJP,
	"ja_jp": monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"zh_cn": monday.LocaleZhCN,
	"zh_tw": monday.LocaleZhTW,
	"ko":    monday.LocaleKoKR,
	"ko_kr": monday.LocaleKoKR,
}

// dateLayoutForStyle returns the Go layout for a style and locale.
// Styles: "short" (numeric), "medium" (abbreviated), "long" (full month), "full" (with weekday)
func dateLayoutForStyle(style string, locale monday.Locale) (string, bool) {
	switch style {
	case "short":
		switch locale {
		case monday.LocaleEnUS:
			return "1/2/06", true
		case monday.LocaleDeDE:
			return "02.01.06", true
		case monday.LocaleJaJP:
			return "06/01/02", true
		case monday.LocaleZhCN, monday.LocaleZhTW:
			return "06/1/2", true
		case monday.LocaleKoKR:
			return "06. 1. 2.", true
		default:
			return "02/01/06", true
		}
	case "medium":
		switch locale {
		case monday.LocaleEnUS:
			return "Jan 2, 2006", true
		case monday.LocaleDeDE:
			return "2. Jan. 2006", true
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日", true
		case monday.LocaleKoKR:
			return "2006년 1월 2일", true
		default:
			return "2 Jan 2006", true
		}
	case "long":
		switch locale {
		case monday.LocaleEnUS:
			return "January 2, 2006", true
		case monday.LocaleDeDE:
			return "2. January 2006", true
		case monday.LocaleEsES:
			return "2 de January de 2006", true
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日", true
		case monday.LocaleKoKR:
			return "2006년 1월 2일", true
		default:
			return "2 January 2006", true
		}
	case "full":
		switch locale {
		case monday.LocaleEnUS:
			return "Monday, January 2, 2006", true
		case monday.LocaleDeDE:
			return "Monday, 2. January 2006", true
		case monday.LocaleFrFR, monday.LocaleFrCA:
			return "Monday 2 January 2006", true
		case monday.LocaleEsES:
			return "Monday, 2 de January de 2006", true
		case monday.LocaleJaJP, monday.LocaleZhCN, monday.LocaleZhTW:
			return "2006年1月2日 Monday", true
		case monday.LocaleKoKR:
			return "2006년 1월 2일 Monday", true
		default:
			return "Monday, 2 January 2006", true
		}
	}
	return "", false
}
