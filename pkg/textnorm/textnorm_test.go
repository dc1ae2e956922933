package textnorm

import "testing"

func TestNormalizeLatin(t *testing.T) {
	got := Normalize("  Hello,   World! 3D-Printer  ", "en")
	want := "hello world 3dprinter"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeKoreanComposition(t *testing.T) {
	// 분해형(NFD) 한글 입력이 조합형(NFC)으로 통일되어야 한다
	decomposed := "한국" // 한국 (조합 전)
	composed := "한국"                           // 한국

	if got := Normalize(decomposed, "ko"); got != composed {
		t.Errorf("Normalize(NFD hangul) = %q, want %q", got, composed)
	}
}

func TestNormalizeJapaneseWidthFolding(t *testing.T) {
	// 전각 영숫자와 반각 가타카나가 표준형으로 접힌다
	got := Normalize("ＡＢＣ１２３ ｶﾀｶﾅ", "ja")
	want := "abc123 カタカナ"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Hello,   World!  ",
		"한국 서울  3D 프린터",
		"ＡＢＣ　１２３　ｶﾀｶﾅ",
		"PCB 設計・試作",
	}
	for _, lang := range []string{"en", "ko", "ja", "xx"} {
		for _, in := range inputs {
			once := Normalize(in, lang)
			twice := Normalize(once, lang)
			if once != twice {
				t.Errorf("Normalize not idempotent for lang=%s input=%q: %q != %q",
					lang, in, once, twice)
			}
		}
	}
}

func TestNormalizeUnknownLanguageUsesDefault(t *testing.T) {
	if got, want := Normalize("Köln!  City", "xx"), "köln city"; got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestDetect(t *testing.T) {
	d := Detector{Fallback: "ko"}

	cases := []struct {
		header string
		want   string
	}{
		{"ko-KR,ko;q=0.9,en;q=0.7", "ko"},
		{"en-US,en;q=0.9,ko;q=0.5", "en"},
		{"ja;q=0.8,en;q=0.9", "en"},
		{"fr-FR,de;q=0.9", "ko"}, // 지원 언어 없음 → fallback
		{"", "ko"},
		{"JA-jp", "ja"},
	}
	for _, c := range cases {
		if got := d.Detect(c.header); got != c.want {
			t.Errorf("Detect(%q) = %q, want %q", c.header, got, c.want)
		}
	}
}
