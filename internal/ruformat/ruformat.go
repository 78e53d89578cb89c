// Package ruformat formats counts and relative times in Russian.
package ruformat

import (
	"fmt"
	"math"
	"time"
)

// Plural returns "n form" choosing the grammatical form Russian requires for n:
// one for 1, 21, 31...; few for 2-4, 22-24...; many for everything else,
// including 11-14.
func Plural(n int, one, few, many string) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	form := many
	if rem := abs % 100; rem < 11 || rem > 14 {
		switch last := abs % 10; {
		case last == 1:
			form = one
		case last >= 2 && last <= 4:
			form = few
		}
	}
	return fmt.Sprintf("%d %s", n, form)
}

type unit struct {
	limit          float64
	one, few, many string
}

// units are ordered from smallest to largest; limit is how many of the unit
// make up the next one.
var units = []unit{
	{60, "секунду", "секунды", "секунд"},
	{60, "минуту", "минуты", "минут"},
	{24, "час", "часа", "часов"},
	{7, "день", "дня", "дней"},
	{4.34524, "неделю", "недели", "недель"},
	{12, "месяц", "месяца", "месяцев"},
	{math.Inf(1), "год", "года", "лет"},
}

// RelativeTime describes how long ago ts was, relative to now shifted back by
// tzOffset hours. The largest fitting unit is followed by the remainder in the
// next smaller unit when it is non-zero, e.g. "1 час 2 минуты назад".
func RelativeTime(ts time.Time, tzOffset int, now time.Time) string {
	delta := now.Unix() - ts.Unix() - int64(tzOffset)*3600
	if delta < 0 {
		return "в будущем"
	}
	if delta < 5 {
		return "только что"
	}

	value := float64(delta)
	var prev *unit
	for i := range units {
		u := units[i]
		if value < u.limit {
			whole := int(value)
			result := Plural(whole, u.one, u.few, u.many)
			if prev != nil {
				if extra := int((value - float64(whole)) * prev.limit); extra > 0 {
					result += " " + Plural(extra, prev.one, prev.few, prev.many)
				}
			}
			return result + " назад"
		}
		prev = &units[i]
		value /= u.limit
	}
	return "давно"
}

// RelativeUnix is RelativeTime for a Unix timestamp as returned by the Steam API.
func RelativeUnix(ts int64, tzOffset int, now time.Time) string {
	return RelativeTime(time.Unix(ts, 0), tzOffset, now)
}
