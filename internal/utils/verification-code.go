package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// CodeAlphabet enthält nur alphanumerische Zeichen, damit Tokens ohne Escaping in Links passen.
const CodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	DefaultTokenLength        = 32
	DefaultVerificationLength = 8
)

// TokenGenerator erzeugt Einladungstokens und Verifizierungscodes.
type TokenGenerator interface {
	GenerateCode() string
	GenerateCodeOfLength(n int) string
	HashCode(code string) (string, error)
	VerifyCode(code, hash string) bool
}

type CodeGenerator struct {
	length int
	cost   int
}

// NewCodeGenerator mit length <= 0 verwendet DefaultTokenLength.
func NewCodeGenerator(length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultTokenLength
	}
	return &CodeGenerator{length: length, cost: bcrypt.DefaultCost}
}

// GenerateCode liefert einen kryptographisch zufälligen Code fester Länge.
func (g *CodeGenerator) GenerateCode() string {
	return g.GenerateCodeOfLength(g.length)
}

// GenerateCodeOfLength beendet den Prozess, wenn die Entropiequelle versagt:
// ohne Zufall dürfen keine Zugangsdaten mehr ausgegeben werden.
func (g *CodeGenerator) GenerateCodeOfLength(n int) string {
	code, err := gonanoid.Generate(CodeAlphabet, n)
	if err != nil {
		log.Fatal().Err(err).Msg("Entropiequelle nicht verfügbar, Code kann nicht erzeugt werden")
	}
	return code
}

// HashCode erzeugt einen gesalzenen bcrypt-Hash. Der Klartext wird nie gespeichert.
func (g *CodeGenerator) HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), g.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (g *CodeGenerator) VerifyCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
