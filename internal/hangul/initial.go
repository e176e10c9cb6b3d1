// Package hangul orders strings the way the board's locale-sorted problem
// list expects: digits first, then Latin letters, then Hangul grouped by
// the leading consonant of each syllable, then everything else.
package hangul

const (
	syllableBase = 0xAC00 // 가
	syllableLast = 0xD7A3 // 힣

	// Each leading consonant spans 21 medial vowels x 28 final consonants.
	syllablesPerInitial = 21 * 28
)

// initials is the ordered table of the 19 leading consonants.
var initials = [19]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ',
	'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// Character classes, in ascending sort order.
const (
	classDigit = iota
	classLetter
	classHangul
	classOther
)

// Initial returns the leading consonant of a precomposed Hangul syllable,
// or false if r is not in the syllable block.
func Initial(r rune) (rune, bool) {
	if r < syllableBase || r > syllableLast {
		return 0, false
	}
	return initials[(r-syllableBase)/syllablesPerInitial], true
}

// InitialIndex returns the position of the syllable's leading consonant in
// the 19-consonant table, or -1 if r is not a Hangul syllable.
func InitialIndex(r rune) int {
	if r < syllableBase || r > syllableLast {
		return -1
	}
	return int((r - syllableBase) / syllablesPerInitial)
}

// key maps a rune to its (class, ordinal) sort pair.
func key(r rune) (int, rune) {
	switch {
	case r >= '0' && r <= '9':
		return classDigit, r
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return classLetter, lower(r)
	case r >= syllableBase && r <= syllableLast:
		return classHangul, rune(InitialIndex(r))
	default:
		return classOther, r
	}
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Less reports whether a sorts before b. Runes are compared pairwise by
// class then ordinal; for Hangul the ordinal is the leading-consonant
// index, so 가 and 고 compare equal at the first position. A shorter
// string sorts before its extensions. Empty strings sort last, standing in
// for the missing titles the board treats as unsortable.
func Less(a, b string) bool {
	if a == "" || b == "" {
		return a != "" && b == ""
	}
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		ca, ka := key(ra[i])
		cb, kb := key(rb[i])
		if ca != cb {
			return ca < cb
		}
		if ka != kb {
			return ka < kb
		}
	}
	return len(ra) < len(rb)
}
