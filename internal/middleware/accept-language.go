package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

// Reihenfolge zählt: der erste Eintrag ist die Rückfallsprache.
var supportedLanguages = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
})

// AcceptLanguageMiddleware wählt aus Accept-Language die beste unterstützte Sprache
// (z. B. "de-DE,de;q=0.9,en;q=0.7" -> "de") und speichert sie bei c.Locals("lang").
func AcceptLanguageMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("lang", matchLanguage(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}

func matchLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	tag, _, _ := supportedLanguages.Match(tags...)
	base, _ := tag.Base()
	return base.String()
}
