package notif

import (
	"regexp"
	"strconv"
	"strings"

	"ordersnag/internal/core/platformpack"
	"ordersnag/internal/core/textnorm"
	perr "ordersnag/internal/platform/errors"
)

// Parse failure sentinels. Both carry the parse error code; callers branch
// with errors.Is when the distinction matters (unknown platforms are dropped
// silently, missing amounts are recorded as rejects)
var (
	ErrUnknownPlatform = perr.New(perr.ErrorCodeParse, "notif: unrecognized source package")
	ErrNoAmount        = perr.New(perr.ErrorCodeParse, "notif: no payout amount in notification")
)

const kmPerMile = 1.609344

// Parser extracts order signals from raw notifications using the platform table
type Parser struct {
	pack *platformpack.Pack
	norm *textnorm.Normalizer
}

// NewParser constructs a Parser over the given platform pack
func NewParser(pack *platformpack.Pack) *Parser {
	return &Parser{pack: pack, norm: textnorm.New()}
}

// Parse produces an OrderSignal or a parse failure. Pure transformation;
// no side effects
func (p *Parser) Parse(n Notification) (OrderSignal, error) {
	plat, ok := p.pack.ForPackage(n.SourcePackage)
	if !ok {
		return OrderSignal{}, ErrUnknownPlatform
	}

	// title first so "Guaranteed $12.50" headlines win over body noise
	body := p.norm.Normalize(n.Title + " " + n.Text)

	cents, ok := extractAmountCents(plat.Amount, body)
	if !ok {
		return OrderSignal{}, ErrNoAmount
	}

	return OrderSignal{
		NotificationID: n.ID,
		Platform:       plat.ID,
		SourcePackage:  n.SourcePackage,
		AmountCents:    cents,
		DistanceKm:     extractDistanceKm(plat.Distance, body),
		EtaMinutes:     extractEtaMinutes(plat.Eta, body),
		Priority:       extractPriority(plat.PriorityKeywords, body),
		CapturedAt:     n.PostedAt,
	}, nil
}

func extractAmountCents(patterns []*regexp.Regexp, body string) (int64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(body)
		if len(m) < 2 {
			continue
		}
		if cents, ok := amountToCents(m[1]); ok {
			return cents, true
		}
	}
	return 0, false
}

// amountToCents parses a localized money string into integer cents.
// Handles "12.50", "12,50", "1,250.00" and "1.250,00"; a lone separator
// followed by exactly three digits is treated as a grouping separator
func amountToCents(raw string) (int64, bool) {
	raw = strings.Trim(raw, ".,")
	if raw == "" {
		return 0, false
	}

	lastDot := strings.LastIndexByte(raw, '.')
	lastComma := strings.LastIndexByte(raw, ',')

	dec := -1
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// both present: the later one is the decimal separator
		dec = lastDot
		if lastComma > lastDot {
			dec = lastComma
		}
	case lastDot >= 0 || lastComma >= 0:
		sep := lastDot
		if lastComma > sep {
			sep = lastComma
		}
		if strings.Count(raw, string(raw[sep])) == 1 && len(raw)-sep-1 <= 2 {
			dec = sep
		}
	}

	intPart, frac := raw, ""
	if dec >= 0 {
		intPart, frac = raw[:dec], raw[dec+1:]
	}
	intPart = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intPart)

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, false
	}
	centsPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, false
	}

	return whole*100 + centsPart, true
}

func extractDistanceKm(patterns []*regexp.Regexp, body string) *float64 {
	for _, re := range patterns {
		m := re.FindStringSubmatch(body)
		if len(m) < 3 {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if strings.HasPrefix(m[2], "mi") {
			v *= kmPerMile
		}
		return &v
	}
	return nil
}

func extractEtaMinutes(patterns []*regexp.Regexp, body string) *int {
	for _, re := range patterns {
		m := re.FindStringSubmatch(body)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// extractPriority scans for platform keywords and keeps the most severe hit.
// Notifications with no urgency markers default to LOW
func extractPriority(keywords map[string]string, body string) Priority {
	out := PriorityLow
	for kw, tier := range keywords {
		if !strings.Contains(body, kw) {
			continue
		}
		switch tier {
		case "high":
			return PriorityHigh
		case "medium":
			out = PriorityMedium
		}
	}
	return out
}
