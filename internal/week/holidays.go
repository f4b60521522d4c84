package week

import (
	"time"
)

// Holidays returns the Brazilian national holidays for the given year, keyed
// by YYYY-MM-DD.
func Holidays(year int) map[string]string {
	holidays := make(map[string]string)

	// Fixed holidays
	holidays[formatDate(year, 1, 1)] = "Confraternização Universal"
	holidays[formatDate(year, 4, 21)] = "Tiradentes"
	holidays[formatDate(year, 5, 1)] = "Dia do Trabalho"
	holidays[formatDate(year, 9, 7)] = "Independência do Brasil"
	holidays[formatDate(year, 10, 12)] = "Nossa Senhora Aparecida"
	holidays[formatDate(year, 11, 2)] = "Finados"
	holidays[formatDate(year, 11, 15)] = "Proclamação da República"
	if year >= 2024 {
		holidays[formatDate(year, 11, 20)] = "Dia da Consciência Negra"
	}
	holidays[formatDate(year, 12, 25)] = "Natal"

	// Easter-based holidays (movable)
	easter := calculateEaster(year)

	holidays[formatDateFromTime(easter.AddDate(0, 0, -48))] = "Carnaval"
	holidays[formatDateFromTime(easter.AddDate(0, 0, -47))] = "Carnaval"
	holidays[formatDateFromTime(easter.AddDate(0, 0, -2))] = "Sexta-feira Santa"
	holidays[formatDateFromTime(easter.AddDate(0, 0, 60))] = "Corpus Christi"

	return holidays
}

// calculateEaster calculates Easter Sunday using the Meeus/Jones/Butcher algorithm
func calculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func formatDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format(DateLayout)
}

func formatDateFromTime(t time.Time) string {
	return t.Format(DateLayout)
}
