package bill

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidDate   = errors.New("invalid bill date")
	ErrUnknownStatus = errors.New("unknown bill status")
)

const isoDate = "2006-01-02"

var supported = []language.Tag{language.French, language.English}

var matcher = language.NewMatcher(supported)

var monthNames = [][12]string{
	{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
}

var statusLabels = []map[Status]string{
	{StatusPending: "En attente", StatusAccepted: "Accepté", StatusRefused: "Refused"},
	{StatusPending: "Pending", StatusAccepted: "Accepted", StatusRefused: "Refused"},
}

// Locale selects the month names and status labels used for display
type Locale struct {
	tag   language.Tag
	index int
}

// French is the default display locale
var French = Locale{tag: language.French, index: 0}

// English display locale
var English = Locale{tag: language.English, index: 1}

// ParseLocale picks the closest supported locale for the given language
// preferences (BCP 47 tags or Accept-Language values), falling back to French.
func ParseLocale(prefs ...string) Locale {
	_, index := language.MatchStrings(matcher, prefs...)
	return Locale{tag: supported[index], index: index}
}

// String returns the BCP 47 tag of the locale
func (l Locale) String() string {
	return l.tag.String()
}

// FormatDate turns an ISO date into the short display form, e.g. "4 Avr. 04"
func (l Locale) FormatDate(iso string) (string, error) {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, iso)
	}

	month := []rune(cases.Title(l.tag).String(monthNames[l.index][t.Month()-1]))
	if len(month) > 3 {
		month = month[:3]
	}

	return fmt.Sprintf("%d %s. %02d", t.Day(), string(month), t.Year()%100), nil
}

// FormatStatus returns the human label of a status
func (l Locale) FormatStatus(status Status) (string, error) {
	label, ok := statusLabels[l.index][status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return label, nil
}

// Format returns a display copy of b with date and status replaced by their
// labels. b is never modified.
func (l Locale) Format(b Bill) (Bill, error) {
	date, err := l.FormatDate(b.Date)
	if err != nil {
		return b, err
	}
	status, err := l.FormatStatus(b.Status)
	if err != nil {
		return b, err
	}

	formatted := b
	formatted.RawDate = b.Date
	formatted.Date = date
	formatted.Status = Status(status)
	return formatted, nil
}
