package password

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

var (
	ErrTooWeak     = errors.New("password does not meet policy")
	ErrBlacklisted = errors.New("password is too common")
)

// Policy aplica a passwords elegidas por un admin al crear cuentas.
// El login no la usa: las cuentas existentes pueden tener passwords viejas.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool

	Blacklist *Blacklist
}

// Check retorna nil o un error que envuelve ErrTooWeak / ErrBlacklisted.
// reasons usa códigos cortos (too_short, missing_digit, ...).
func (p Policy) Check(s string) (reasons []string, err error) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	for _, c := range []struct {
		need, has bool
		code      string
	}{
		{p.RequireUpper, hasU, "missing_upper"},
		{p.RequireLower, hasL, "missing_lower"},
		{p.RequireDigit, hasD, "missing_digit"},
		{p.RequireSymbol, hasS, "missing_symbol"},
	} {
		if c.need && !c.has {
			reasons = append(reasons, c.code)
		}
	}
	if len(reasons) > 0 {
		return reasons, ErrTooWeak
	}
	if p.Blacklist.Contains(s) {
		return []string{"blacklisted"}, ErrBlacklisted
	}
	return nil, nil
}

// Blacklist es un set de passwords comunes, cargado una vez al arrancar.
type Blacklist struct {
	data map[string]struct{}
}

// LoadBlacklist lee una password por línea; ignora vacías y "#comentarios".
// Un path vacío da una lista vacía.
func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	if strings.TrimSpace(path) == "" {
		return bl, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.ToLower(strings.TrimSpace(sc.Text()))
		if s != "" && !strings.HasPrefix(s, "#") {
			bl.data[s] = struct{}{}
		}
	}
	return bl, sc.Err()
}

func NewBlacklist(words ...string) *Blacklist {
	bl := &Blacklist{data: make(map[string]struct{}, len(words))}
	for _, w := range words {
		bl.data[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return bl
}

func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	_, ok := b.data[strings.ToLower(strings.TrimSpace(pwd))]
	return ok
}
