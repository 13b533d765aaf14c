package boundary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultPattern is used for input and output when the caller gives none.
const DefaultPattern = "yyyy-MM-dd"

// IntervalPattern is appended to an output pattern that carries no time of
// day when an interval is requested.
const IntervalPattern = "HH:mm:ss"

var (
	errUnterminated = errors.New("unterminated quoted literal")
	errFraction     = errors.New("fraction of second wider than 9 digits")
)

// Pattern is a compiled Joda style date pattern. Runs of a pattern letter form
// one field whose width is the run length; text in single quotes is literal,
// and two single quotes are one quote, inside or outside a quoted run.
//
//	y  year            M  month (MMM Jan, MMMM January)
//	d  day of month    D  day of year
//	E  weekday (EEE Mon, EEEE Monday)
//	u  weekday number, Monday is 1 (also e)
//	Y  ISO week-based year (also x)
//	w  ISO week of the week-based year
//	a  AM or PM        H  hour 0-23      k  hour 1-24
//	K  hour 0-11       h  hour 1-12
//	m  minute          s  second         S  fraction of second
//	G  era (AD)
type Pattern struct {
	source string
	fields []field
}

type field struct {
	letter  rune // 0 for literal text
	width   int
	literal string
}

func (f field) numeric() bool {
	switch f.letter {
	case 'y', 'Y', 'x', 'w', 'd', 'D', 'u', 'e', 'H', 'k', 'K', 'h', 'm', 's', 'S':
		return true
	case 'M':
		return f.width < 3
	}
	return false
}

func (f field) clock() bool {
	switch f.letter {
	case 'H', 'k', 'K', 'h', 'm', 's':
		return true
	}
	return false
}

type patternAST struct {
	Elements []*patternElement `parser:"@@*"`
}

type patternElement struct {
	Escaped string `parser:"  @Escaped"`
	Quoted  string `parser:"| @Quoted"`
	Letter  string `parser:"| @Letter"`
	Literal string `parser:"| @Literal"`
}

var (
	patternParserOnce sync.Once
	patternParser     *participle.Parser[patternAST]
)

// ParsePattern compiles a pattern. Letters outside the table on [Pattern] are
// rejected rather than passed through.
func ParsePattern(pattern string) (Pattern, error) {
	patternParserOnce.Do(func() {
		patternParser = participle.MustBuild[patternAST](
			participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
				{Name: "Escaped", Pattern: `''`},
				{Name: "Quoted", Pattern: `'(?:[^']|'')*'`},
				{Name: "Letter", Pattern: `[a-zA-Z]`},
				{Name: "Literal", Pattern: `[^a-zA-Z']+`},
			})),
		)
	})

	if pattern == "" {
		return Pattern{}, nil
	}
	ast, err := patternParser.ParseString("pattern", pattern)
	if err != nil {
		if strings.Count(pattern, "'")%2 == 1 {
			err = errUnterminated
		}
		return Pattern{}, PatternError{pattern, err}
	}

	p := Pattern{source: pattern}
	for _, el := range ast.Elements {
		switch {
		case el.Letter != "":
			r := rune(el.Letter[0])
			if !strings.ContainsRune("yYxwMdDEueaHkKhmsSG", r) {
				return Pattern{}, PatternError{pattern, fmt.Errorf("unsupported pattern letter %q", r)}
			}
			if n := len(p.fields); n > 0 && p.fields[n-1].letter == r {
				p.fields[n-1].width++
				continue
			}
			p.fields = append(p.fields, field{letter: r, width: 1})
		case el.Escaped != "":
			p.literal("'")
		case el.Quoted != "":
			p.literal(strings.ReplaceAll(el.Quoted[1:len(el.Quoted)-1], "''", "'"))
		default:
			p.literal(el.Literal)
		}
	}
	for _, f := range p.fields {
		if f.letter == 'S' && f.width > 9 {
			return Pattern{}, PatternError{pattern, errFraction}
		}
	}
	return p, nil
}

func (p *Pattern) literal(s string) {
	if n := len(p.fields); n > 0 && p.fields[n-1].letter == 0 {
		p.fields[n-1].literal += s
		return
	}
	p.fields = append(p.fields, field{literal: s})
}

func (p Pattern) String() string { return p.source }

// HasClock reports whether p renders an hour, minute or second.
func (p Pattern) HasClock() bool {
	for _, f := range p.fields {
		if f.clock() {
			return true
		}
	}
	return false
}

// WithInterval returns p followed by a space and HH:mm:ss.
func (p Pattern) WithInterval() Pattern {
	q := Pattern{source: p.source + " " + IntervalPattern}
	q.fields = append(q.fields, p.fields...)
	q.literal(" ")
	q.fields = append(q.fields, field{letter: 'H', width: 2}, field{literal: ":"},
		field{letter: 'm', width: 2}, field{literal: ":"}, field{letter: 's', width: 2})
	return q
}

// Format renders d.
func (p Pattern) Format(d DateTime) string {
	var b strings.Builder
	for _, f := range p.fields {
		switch f.letter {
		case 0:
			b.WriteString(f.literal)
		case 'G':
			b.WriteString("AD")
		case 'y':
			padYear(&b, d.Year, f.width)
		case 'Y', 'x':
			year, _ := d.ISOWeek()
			padYear(&b, year, f.width)
		case 'w':
			_, week := d.ISOWeek()
			pad(&b, week, f.width)
		case 'M':
			switch {
			case f.width >= 4:
				b.WriteString(d.Month.String())
			case f.width == 3:
				b.WriteString(d.Month.String()[:3])
			default:
				pad(&b, int(d.Month), f.width)
			}
		case 'd':
			pad(&b, d.Day, f.width)
		case 'D':
			pad(&b, d.YearDay(), f.width)
		case 'E':
			if f.width >= 4 {
				b.WriteString(d.Weekday().String())
			} else {
				b.WriteString(d.Weekday().String()[:3])
			}
		case 'u', 'e':
			pad(&b, isoWeekday(d.Weekday()), f.width)
		case 'a':
			if d.Hour < 12 {
				b.WriteString("AM")
			} else {
				b.WriteString("PM")
			}
		case 'H':
			pad(&b, d.Hour, f.width)
		case 'k':
			if d.Hour == 0 {
				pad(&b, 24, f.width)
			} else {
				pad(&b, d.Hour, f.width)
			}
		case 'K':
			pad(&b, d.Hour%12, f.width)
		case 'h':
			if h := d.Hour % 12; h == 0 {
				pad(&b, 12, f.width)
			} else {
				pad(&b, h, f.width)
			}
		case 'm':
			pad(&b, d.Minute, f.width)
		case 's':
			pad(&b, d.Second, f.width)
		case 'S':
			frac := fmt.Sprintf("%09d", d.Nanosecond)
			b.WriteString(frac[:f.width])
		}
	}
	return b.String()
}

func pad(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// padYear writes the last two digits of year for a two letter field.
func padYear(b *strings.Builder, year, width int) {
	if width == 2 {
		year = (year%100 + 100) % 100
	}
	pad(b, year, width)
}

func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// Parse reads s against p. Fields absent from p default to 1970-01-01 at
// midnight, and text after the last field is ignored. Parsing is lenient:
// values out of range roll into the next field, so 2011-02-30 reads as
// 2011-03-02 and 24:00 as midnight of the following day. ok is false only
// when s does not have the shape of p.
//
// A week of year (w) selects a date by ISO week, from the week-based year
// (Y or x, else y) and the weekday (u, e or E, else Monday). Otherwise a day
// of year (D) wins over month and day.
func (p Pattern) Parse(s string) (d DateTime, ok bool) {
	var (
		year, month, day = 1970, 1, 1
		weekYear, week   = 0, 0
		weekday          = 1
		yearDay          = 0
		hasYear          = false
		hasWeekYear      = false
		hasWeek          = false
		hasYearDay       = false
		hour, pm         = 0, -1
		hour12           = false
		c                Clock
	)
	rest := s
	for i, f := range p.fields {
		if f.letter == 0 {
			if !strings.HasPrefix(rest, f.literal) {
				return d, false
			}
			rest = rest[len(f.literal):]
			continue
		}
		if f.numeric() {
			limit := 0 // unlimited
			if i+1 < len(p.fields) && p.fields[i+1].numeric() {
				limit = f.width
			}
			n, digits, tail := readNumber(rest, limit)
			if digits == 0 {
				return d, false
			}
			rest = tail
			if (f.letter == 'y' || f.letter == 'Y' || f.letter == 'x') && f.width == 2 && digits == 2 {
				n = twoDigitYear(n)
			}
			switch f.letter {
			case 'y':
				year, hasYear = n, true
			case 'Y', 'x':
				weekYear, hasWeekYear = n, true
			case 'w':
				week, hasWeek = n, true
			case 'M':
				month = n
			case 'd':
				day = n
			case 'D':
				yearDay, hasYearDay = n, true
			case 'u', 'e':
				weekday = n
			case 'H':
				hour, hour12 = n, false
			case 'k':
				hour, hour12 = clockHour(n, 24), false
			case 'K':
				hour, hour12 = n, true
			case 'h':
				hour, hour12 = clockHour(n, 12), true
			case 'm':
				c.Minute = n
			case 's':
				c.Second = n
			case 'S':
				if digits > 9 {
					return d, false
				}
				for range 9 - digits {
					n *= 10
				}
				c.Nanosecond = n
			}
			continue
		}
		var idx, width int
		switch f.letter {
		case 'M':
			idx, width = matchName(rest, monthNames[:])
			month = idx + 1
		case 'E':
			idx, width = matchName(rest, weekdayNames[:])
			weekday = isoWeekday(time.Weekday(idx))
		case 'a':
			idx, width = matchName(rest, []string{"AM", "PM"})
			pm = idx
		case 'G':
			idx, width = matchName(rest, []string{"AD"})
		}
		if width == 0 {
			return d, false
		}
		rest = rest[width:]
	}

	if hour12 && pm == 1 {
		hour += 12
	}
	switch {
	case hasWeek:
		if !hasWeekYear {
			weekYear = year
		}
		monday := isoWeekStart(weekYear).AddDate(0, 0, (week-1)*7+weekday-1)
		year, month, day = monday.Year(), int(monday.Month()), monday.Day()
	case hasYearDay:
		month, day = 1, yearDay
	case hasWeekYear && !hasYear:
		year = weekYear
	}
	t := time.Date(year, time.Month(month), day, hour, c.Minute, c.Second, c.Nanosecond, time.UTC)
	return FromTime(t), true
}

// clockHour maps the top hour of a 1-based clock (24 or 12) to zero.
func clockHour(n, top int) int {
	if n == top {
		return 0
	}
	return n
}

// isoWeekStart returns the Monday of week 1 of ISO week-based year y, the
// week holding January 4th.
func isoWeekStart(y int) time.Time {
	jan4 := time.Date(y, time.January, 4, 0, 0, 0, 0, time.UTC)
	return jan4.AddDate(0, 0, 1-isoWeekday(jan4.Weekday()))
}

// readNumber reads up to limit digits (all of them when limit is 0).
func readNumber(s string, limit int) (n, digits int, rest string) {
	for digits < len(s) && (limit == 0 || digits < limit) {
		ch := s[digits]
		if ch < '0' || ch > '9' {
			break
		}
		if digits < 18 {
			n = n*10 + int(ch-'0')
		}
		digits++
	}
	return n, digits, s[digits:]
}

// twoDigitYear maps yy into 1950 through 2049.
func twoDigitYear(n int) int {
	if n < 50 {
		return 2000 + n
	}
	return 1900 + n
}

var (
	monthNames   [12]string
	weekdayNames [7]string
)

func init() {
	for m := time.January; m <= time.December; m++ {
		monthNames[m-1] = m.String()
	}
	for w := time.Sunday; w <= time.Saturday; w++ {
		weekdayNames[w] = w.String()
	}
}

// matchName matches a full name, or its first three letters, ignoring case.
// It returns the index matched and the width consumed, or a zero width.
func matchName(s string, names []string) (idx, width int) {
	for i, name := range names {
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return i, len(name)
		}
	}
	for i, name := range names {
		if len(name) > 3 && len(s) >= 3 && strings.EqualFold(s[:3], name[:3]) {
			return i, 3
		}
	}
	return 0, 0
}
