package services

import (
	"testing"

	"github.com/makerlink/server/pkg/textnorm"
)

func TestPredicateAndSemantics(t *testing.T) {
	// "3d printer seoul" 3개 항 중 "printer"가 없으면 매칭 실패
	pred := BuildPredicate("3d printer seoul")

	text := "3d scanning service in seoul hongdae studio"
	if pred.Match(text, "equipment") {
		t.Error("predicate must require every term (AND semantics)")
	}

	text = "3d printer rental in seoul hongdae studio"
	if !pred.Match(text, "equipment") {
		t.Error("predicate should match when every term is present")
	}
}

func TestPredicateSingleTerm(t *testing.T) {
	pred := BuildPredicate("welding")

	if !pred.Match("tig welding and fabrication", "fabrication") {
		t.Error("single term should match as substring")
	}
	if pred.Match("laser cutting service", "fabrication") {
		t.Error("single term absent from text and category must not match")
	}

	// 본문에 없어도 카테고리와 정확히 일치하면 매칭
	pred = BuildPredicate("fabrication")
	if !pred.Match("sheet metal bending", "fabrication") {
		t.Error("single term should match the category field exactly")
	}
}

func TestPredicateEmptyQueryMatchesEverything(t *testing.T) {
	pred := BuildPredicate("")
	if !pred.Empty() {
		t.Error("predicate from empty query should be empty")
	}
	if !pred.Match("anything at all", "any") {
		t.Error("empty predicate must match everything")
	}
}

func TestPredicateWithNormalizedKoreanQuery(t *testing.T) {
	normalized := textnorm.Normalize("3D 프린터  서울", "ko")
	pred := BuildPredicate(normalized)

	text := textnorm.Normalize("서울 마포구 3d 프린터 출력 서비스", "ko")
	if !pred.Match(text, "") {
		t.Errorf("expected match for normalized korean query %q against %q", normalized, text)
	}
}
