// Package numfmt converts widget values between numbers and the text a
// user sees in a given culture.
//
// Script options are always serialized in an invariant form; only the text
// shown inside form fields is culture dependent, which is what Codec
// handles.
package numfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrSyntax is returned by Parse for text that is not a number.
var ErrSyntax = errors.New("numfmt: invalid number")

// Codec formats and parses numbers.
type Codec interface {
	Format(v float64) string
	Parse(s string) (float64, error)
}

// Invariant formats with strconv: no grouping, '.' as decimal separator.
var Invariant Codec = invariant{}

type invariant struct{}

func (invariant) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (invariant) Parse(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return v, nil
}

// MaxFractionDigits bounds the fraction digits printed by culture codecs.
const MaxFractionDigits = 6

// CultureCodec formats numbers with the separators and digits of a
// language tag, such as "fr-FR" or "de".
type CultureCodec struct {
	tag     language.Tag
	printer *message.Printer
	group   rune
	decimal rune
	digits  map[rune]byte
}

// ForCulture returns a codec for a BCP 47 culture name.
// An empty culture yields the Invariant codec.
func ForCulture(culture string) (Codec, error) {
	if culture == "" {
		return Invariant, nil
	}
	tag, err := language.Parse(culture)
	if err != nil {
		return nil, fmt.Errorf("numfmt: culture %q: %w", culture, err)
	}
	return newCultureCodec(tag), nil
}

func newCultureCodec(tag language.Tag) *CultureCodec {
	c := &CultureCodec{
		tag:     tag,
		printer: message.NewPrinter(tag),
		digits:  make(map[rune]byte, 10),
	}

	for d := 0; d <= 9; d++ {
		for _, r := range c.printer.Sprintf("%v", number.Decimal(d)) {
			c.digits[r] = byte('0' + d)
		}
	}

	// 1234567.5 exposes both separators: the first non-digit is the group
	// separator, the last one the decimal separator.
	sample := []rune(c.printer.Sprintf("%v", number.Decimal(1234567.5, number.MinFractionDigits(1))))
	for _, r := range sample {
		if _, ok := c.digits[r]; !ok {
			c.group = r
			break
		}
	}
	for i := len(sample) - 1; i >= 0; i-- {
		if _, ok := c.digits[sample[i]]; !ok {
			c.decimal = sample[i]
			break
		}
	}
	if c.decimal == c.group {
		// no grouping in this culture
		c.group = 0
	}
	if c.decimal == 0 {
		c.decimal = '.'
	}
	return c
}

// Tag returns the codec's language tag.
func (c *CultureCodec) Tag() language.Tag { return c.tag }

// Separators returns the group and decimal separators.
func (c *CultureCodec) Separators() (group, decimal rune) { return c.group, c.decimal }

// Format prints v with grouping and up to MaxFractionDigits fraction
// digits.
func (c *CultureCodec) Format(v float64) string {
	return c.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(MaxFractionDigits)))
}

// Parse reads text produced by Format, or typed by a user in the same
// culture. Grouping, spaces and currency symbols are ignored.
func (c *CultureCodec) Parse(s string) (float64, error) {
	var b strings.Builder
	seenDigit := false
	for _, r := range strings.TrimSpace(s) {
		if d, ok := c.digits[r]; ok {
			b.WriteByte(d)
			seenDigit = true
			continue
		}
		switch {
		case r == c.decimal:
			b.WriteByte('.')
		case r == c.group, unicode.IsSpace(r), r == '\u00a0', r == '\u202f':
		case r == '-', r == '\u2212':
			if seenDigit || b.Len() > 0 {
				return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
			}
			b.WriteByte('-')
		case r == '+':
		case unicode.Is(unicode.Sc, r):
		default:
			return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
	}
	if !seenDigit {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return v, nil
}
