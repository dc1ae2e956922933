// Package textnorm canonicalizes free text per language so that
// multilingual matching is robust to case, width and composition variants.
package textnorm

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Policy describes how text in one language is canonicalized.
type Policy struct {
	// Form is the Unicode normalization form applied when UseForm is set.
	Form    norm.Form
	UseForm bool
	// StripSymbols removes every rune that is not a letter, digit or
	// whitespace. Disabled for composed scripts where script-native
	// marks carry meaning.
	StripSymbols bool
}

// policies 언어코드 → 정규화 정책. 언어 추가 시 여기만 수정하면 된다.
var policies = map[string]Policy{
	"ko": {Form: norm.NFC, UseForm: true},  // 한글 조합형 통일
	"ja": {Form: norm.NFKC, UseForm: true}, // 전각/반각 통일
	"en": {StripSymbols: true},
}

// defaultPolicy covers Latin-script and unknown languages.
var defaultPolicy = Policy{StripSymbols: true}

// Supported reports whether lang has an explicit policy.
func Supported(lang string) bool {
	_, ok := policies[lang]
	return ok
}

// Normalize canonicalizes text for the given language code. It is
// idempotent: Normalize(Normalize(x, l), l) == Normalize(x, l).
func Normalize(text, lang string) string {
	if text == "" {
		return ""
	}

	p, ok := policies[lang]
	if !ok {
		p = defaultPolicy
	}

	s := text
	if p.UseForm {
		s = p.Form.String(s)
	}
	s = strings.ToLower(s)

	if p.StripSymbols {
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
				b.WriteRune(r)
			}
		}
		s = b.String()
	}

	// 연속 공백을 하나로 축약
	return strings.Join(strings.Fields(s), " ")
}

// Detector picks a supported language from an Accept-Language style
// preference list, falling back to a configured default.
type Detector struct {
	Fallback string
}

// Detect parses a weighted preference list such as
// "ko-KR,ko;q=0.9,en;q=0.7" and returns the highest-weighted supported
// language code. Region subtags are dropped before lookup.
func (d Detector) Detect(header string) string {
	best := ""
	bestQ := -1.0

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		tag := part
		q := 1.0
		if idx := strings.Index(part, ";"); idx >= 0 {
			tag = strings.TrimSpace(part[:idx])
			for _, param := range strings.Split(part[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if strings.HasPrefix(param, "q=") {
					if v, err := strconv.ParseFloat(param[2:], 64); err == nil {
						q = v
					}
				}
			}
		}

		lang := strings.ToLower(tag)
		if idx := strings.Index(lang, "-"); idx >= 0 {
			lang = lang[:idx]
		}
		if !Supported(lang) {
			continue
		}
		if q > bestQ {
			best = lang
			bestQ = q
		}
	}

	if best == "" {
		return d.Fallback
	}
	return best
}
