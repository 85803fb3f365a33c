package market

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/jonboulle/clockwork"
)

// statusPriority orders statuses for the list endpoint.
var statusPriority = map[string]int{
	domain.StatusTrading: 0,
	domain.StatusClosed:  1,
	domain.StatusRest:    2,
}

// Clock serves trading status for a fixed set of markets.
type Clock struct {
	markets []domain.Market
	clock   clockwork.Clock
}

// NewClock creates a trading clock over the given markets.
func NewClock(markets []domain.Market, clock clockwork.Clock) *Clock {
	return &Clock{markets: markets, clock: clock}
}

// Count returns the number of known markets.
func (c *Clock) Count() int {
	return len(c.markets)
}

// Statuses computes the current status of every market, optionally keeping
// only markets that are currently trading, sorted trading before closed
// before rest.
func (c *Clock) Statuses(tradingOnly bool) []domain.MarketStatus {
	now := c.clock.Now()
	out := make([]domain.MarketStatus, 0, len(c.markets))
	for _, m := range c.markets {
		st := Status(m, now)
		if tradingOnly && !st.IsTrading {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return statusPriority[out[i].Status] < statusPriority[out[j].Status]
	})
	return out
}

// Lookup returns the status of the first market whose name contains the given
// substring.
func (c *Clock) Lookup(name string) (domain.MarketStatus, error) {
	now := c.clock.Now()
	for _, m := range c.markets {
		if strings.Contains(m.Name, name) {
			return Status(m, now), nil
		}
	}
	return domain.MarketStatus{}, domain.ErrMarketNotFound
}

// Status computes one market's trading state at the given instant.
//
// The market's local time is derived from its UTC offset. A window whose end
// precedes its start spans midnight: open when now >= start or now < end.
// A rest-day match or a weekend overrides the window entirely.
func Status(m domain.Market, now time.Time) domain.MarketStatus {
	local := now.UTC().Add(time.Duration(float64(m.UTC) * float64(time.Hour)))
	localDate := local.Format("2006-01-02")
	localTime := local.Format("15:04")

	st := domain.MarketStatus{
		Name:      m.Name,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		UTC:       float64(m.UTC),
		LocalTime: localTime,
		LocalDate: localDate,
	}

	restDay := false
	for _, r := range m.RestDays {
		if r.Day == localDate {
			restDay = true
			break
		}
	}
	weekend := local.Weekday() == time.Saturday || local.Weekday() == time.Sunday

	nowMins := minutesOfDay(localTime)
	startMins, okStart := parseMinutes(m.StartTime)
	endMins, okEnd := parseMinutes(m.EndTime)

	trading := false
	if okStart && okEnd {
		if endMins < startMins {
			trading = nowMins >= startMins || nowMins < endMins
		} else {
			trading = startMins <= nowMins && nowMins < endMins
		}
	}

	switch {
	case restDay || weekend:
		st.Status = domain.StatusRest
		st.IsTrading = false
	case trading:
		st.Status = domain.StatusTrading
		st.IsTrading = true
	default:
		st.Status = domain.StatusClosed
		st.IsTrading = false
	}
	return st
}

func minutesOfDay(hhmm string) int {
	mins, _ := parseMinutes(hhmm)
	return mins
}

func parseMinutes(hhmm string) (int, bool) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return h*60 + m, true
}
