package entity

import (
	"strings"
	"unicode"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
)

// NormalizePhone telefonni "+<raqamlar>" ko'rinishiga keltiradi.
// Raqamlar soni 10 dan kam bo'lsa false qaytadi.
// 11 xonali "8..." raqam "7..." ga almashtiriladi, 10 xonali raqamga "+7" qo'shiladi.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) < constants.MinPhoneDigits {
		return "", false
	}
	if len(d) == 11 && strings.HasPrefix(d, "8") {
		d = "7" + d[1:]
	}
	if len(d) == 10 {
		return "+7" + d, true
	}
	return "+" + d, true
}
