package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	seoul := Point{Lat: 37.5665, Lng: 126.9780}
	if d := Distance(seoul, seoul); d != 0 {
		t.Errorf("Distance(A, A) = %f, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	seoul := Point{Lat: 37.5665, Lng: 126.9780}
	busan := Point{Lat: 35.1796, Lng: 129.0756}

	ab := Distance(seoul, busan)
	ba := Distance(busan, seoul)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance not symmetric: %f vs %f", ab, ba)
	}

	// 서울-부산 직선거리는 약 325km
	if ab < 300 || ab > 350 {
		t.Errorf("Seoul-Busan distance = %f, want ~325km", ab)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{Lat: 37.5665, Lng: 126.9780}, true},
		{Point{Lat: 0, Lng: 0}, true},
		{Point{Lat: math.NaN(), Lng: 126.9780}, false},
		{Point{Lat: 37.5, Lng: math.Inf(1)}, false},
		{Point{Lat: 91, Lng: 0}, false},
		{Point{Lat: 0, Lng: -181}, false},
	}
	for _, c := range cases {
		if got := Valid(c.p); got != c.want {
			t.Errorf("Valid(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

type testItem struct {
	lat, lng *float64
}

func (i testItem) Coordinates() (Point, bool) {
	if i.lat == nil || i.lng == nil {
		return Point{}, false
	}
	return Point{Lat: *i.lat, Lng: *i.lng}, true
}

func f(v float64) *float64 { return &v }

func TestFilterByRadiusIncludesOriginCandidate(t *testing.T) {
	origin := Point{Lat: 37.5665, Lng: 126.9780}
	items := []Locatable{
		testItem{lat: f(37.5665), lng: f(126.9780)},
	}

	within := FilterByRadius(items, origin, 10)
	if len(within) != 1 {
		t.Fatalf("expected 1 item within radius, got %d", len(within))
	}
	if within[0].DistanceKm > 0.001 {
		t.Errorf("expected distance ~0, got %f", within[0].DistanceKm)
	}
}

func TestFilterByRadiusZeroRadius(t *testing.T) {
	origin := Point{Lat: 37.5665, Lng: 126.9780}
	items := []Locatable{
		testItem{lat: f(37.5665), lng: f(126.9780)}, // 원점과 동일
		testItem{lat: f(37.4979), lng: f(127.0276)}, // 강남
		testItem{},                                  // 위치 없음
	}

	within := FilterByRadius(items, origin, 0)
	if len(within) != 1 {
		t.Fatalf("expected only the origin candidate, got %d items", len(within))
	}
	if within[0].Index != 0 {
		t.Errorf("expected index 0, got %d", within[0].Index)
	}
}

func TestFilterByRadiusExcludesMissingLocation(t *testing.T) {
	origin := Point{Lat: 37.5665, Lng: 126.9780}
	items := []Locatable{
		testItem{}, // 위치 없음
		testItem{lat: f(37.5665), lng: nil},
	}

	within := FilterByRadius(items, origin, 1000)
	if len(within) != 0 {
		t.Errorf("items without location must be excluded, got %d", len(within))
	}
}

func TestFilterByRadiusSortsAscending(t *testing.T) {
	origin := Point{Lat: 37.5665, Lng: 126.9780}
	items := []Locatable{
		testItem{lat: f(35.1796), lng: f(129.0756)}, // 부산 (~325km)
		testItem{lat: f(37.4979), lng: f(127.0276)}, // 강남 (~9km)
		testItem{lat: f(37.5665), lng: f(126.9780)}, // 원점
	}

	within := FilterByRadius(items, origin, 1000)
	if len(within) != 3 {
		t.Fatalf("expected 3 items, got %d", len(within))
	}
	for i := 1; i < len(within); i++ {
		if within[i].DistanceKm < within[i-1].DistanceKm {
			t.Errorf("results not sorted ascending: %f before %f",
				within[i-1].DistanceKm, within[i].DistanceKm)
		}
	}
	if within[0].Index != 2 {
		t.Errorf("nearest should be the origin candidate, got index %d", within[0].Index)
	}
}
