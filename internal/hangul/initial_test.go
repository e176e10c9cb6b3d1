package hangul

import (
	"sort"
	"testing"
)

func TestInitial(t *testing.T) {
	cases := []struct {
		r    rune
		want rune
	}{
		{'가', 'ㄱ'},
		{'까', 'ㄲ'},
		{'나', 'ㄴ'},
		{'수', 'ㅅ'},
		{'한', 'ㅎ'},
		{'힣', 'ㅎ'},
	}
	for _, c := range cases {
		got, ok := Initial(c.r)
		if !ok {
			t.Fatalf("Initial(%q): not recognized as a syllable", c.r)
		}
		if got != c.want {
			t.Errorf("Initial(%q) = %q, want %q", c.r, got, c.want)
		}
	}

	if _, ok := Initial('a'); ok {
		t.Error("Initial('a') should not be a syllable")
	}
	if _, ok := Initial('ㄱ'); ok {
		t.Error("Initial('ㄱ'): bare jamo is outside the syllable block")
	}
}

func TestLessOrdering(t *testing.T) {
	titles := []string{"한글", "가나다", "apple", "2번"}
	sort.SliceStable(titles, func(i, j int) bool { return Less(titles[i], titles[j]) })

	want := []string{"2번", "apple", "가나다", "한글"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", titles, want)
		}
	}
}

func TestLessHangulByInitialOnly(t *testing.T) {
	// 가 and 고 share the leading consonant ㄱ, so the first position
	// compares equal and the second rune decides: ㄱ(고가) < ㄴ(가나).
	if !Less("고가", "가나") {
		t.Error("고가 should sort before 가나 when grouping by leading consonant")
	}
	if Less("가나", "고가") {
		t.Error("가나 must not sort before 고가")
	}
}

func TestLessEmptySortsLast(t *testing.T) {
	if Less("", "가") {
		t.Error("empty string must sort after non-empty")
	}
	if !Less("가", "") {
		t.Error("non-empty must sort before empty")
	}
	if Less("", "") {
		t.Error("empty vs empty must not be less")
	}
}

func TestLessCaseInsensitiveLetters(t *testing.T) {
	if !Less("Apple", "banana") {
		t.Error("Apple should sort before banana regardless of case")
	}
}
