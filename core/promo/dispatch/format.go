package dispatch

import (
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"
)

// formatHours escreve horas sem notação científica (ex.: 24, 0.5).
func formatHours(d time.Duration) string {
	return strconv.FormatFloat(d.Hours(), 'f', -1, 64)
}

// formatWait arredonda para segundos; abaixo de 1s mostra "1s".
func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		d = time.Second
	}
	return d.String()
}

// capitalize sobe só a primeira runa; nomes de categoria são livres (ex.: "élan").
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
