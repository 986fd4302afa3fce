package use_cases

import (
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/utils"
	"github.com/stretchr/testify/mock"
)

var (
	_ mail.Renderer        = (*MockRenderer)(nil)
	_ utils.TokenGenerator = (*StaticTokenGenerator)(nil)
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(name string, vars map[string]any) (string, error) {
	args := m.Called(name, vars)
	return args.String(0), args.Error(1)
}

// StaticTokenGenerator liefert immer Token bzw. Code; Hash ist "hash:"+code.
type StaticTokenGenerator struct {
	Token string
	Code  string
}

func (g *StaticTokenGenerator) GenerateCode() string { return g.Token }

func (g *StaticTokenGenerator) GenerateCodeOfLength(n int) string {
	if len(g.Code) > n {
		return g.Code[:n]
	}
	return g.Code
}

func (g *StaticTokenGenerator) HashCode(code string) (string, error) { return "hash:" + code, nil }

func (g *StaticTokenGenerator) VerifyCode(code, hash string) bool { return hash == "hash:"+code }
