package rag

import (
	"strings"
	"unicode/utf8"
)

const maxKeywords = 10

// domainSynonyms maps school-autonomy-time terms to their synonym sets.
// The table is ordered: query expansion uses the first entry whose term
// appears verbatim in the query. Loaded once, never mutated.
var domainSynonyms = []struct {
	Term     string
	Synonyms []string
}{
	{"학교자율시간", []string{"학교자율시간", "자율시간", "자율활동", "자율적 교육과정"}},
	{"시수", []string{"시수", "수업시간", "차시", "시간배당", "시간편성"}},
	{"교육과정", []string{"교육과정", "2022 개정", "개정 교육과정", "교과과정"}},
	{"편성", []string{"편성", "운영", "계획", "설계"}},
	{"성취기준", []string{"성취기준", "학습목표", "교육목표", "평가기준"}},
	{"창의적체험활동", []string{"창의적체험활동", "창체", "체험활동", "자율활동"}},
	{"융합", []string{"융합", "통합", "연계", "교과융합"}},
	{"프로젝트", []string{"프로젝트", "프로젝트학습", "프로젝트기반", "PBL"}},
	{"평가", []string{"평가", "성취평가", "과정평가", "수행평가"}},
	{"초등학교", []string{"초등학교", "초등", "초등교육"}},
	{"중학교", []string{"중학교", "중등", "중학"}},
}

// importantTerms are domain terms promoted to the front of the keyword
// list when they appear verbatim in a query.
var importantTerms = []string{
	"학교자율시간", "자율시간", "시수", "편성", "운영",
	"교육과정", "성취기준", "평가", "차시", "창의적체험활동",
	"초등학교", "중학교", "2022", "개정",
}

// stopwords are Korean function words and question particles that carry
// no retrieval signal.
var stopwords = map[string]struct{}{
	"은": {}, "는": {}, "이": {}, "가": {}, "을": {}, "를": {}, "의": {}, "에": {}, "에서": {}, "로": {}, "으로": {},
	"와": {}, "과": {}, "도": {}, "만": {}, "부터": {}, "까지": {}, "에게": {}, "한테": {}, "께": {},
	"이다": {}, "하다": {}, "있다": {}, "되다": {}, "없다": {}, "않다": {},
	"그": {}, "저": {}, "것": {}, "수": {}, "등": {}, "및": {}, "또는": {},
	"무엇": {}, "어떻게": {}, "왜": {}, "언제": {}, "어디": {}, "누구": {},
	"합니다": {}, "입니다": {}, "습니다": {}, "니다": {}, "나요": {}, "인가요": {}, "할까요": {},
}

var punctuationReplacer = strings.NewReplacer("?", "", ".", "", ",", "", "!", "")

// extractKeywords pulls retrieval keywords from a query: punctuation
// stripped, whitespace-split tokens longer than one rune, stopwords
// dropped, with verbatim domain terms promoted to the front. Capped at
// maxKeywords.
func extractKeywords(query string) []string {
	words := strings.Fields(punctuationReplacer.Replace(query))

	var keywords []string
	seen := make(map[string]struct{})

	add := func(word string) {
		if _, dup := seen[word]; dup {
			return
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	for _, term := range importantTerms {
		if strings.Contains(query, term) {
			add(term)
		}
	}

	for _, word := range words {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		add(word)
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// expandSynonyms returns the synonym set of the first domain term that
// appears verbatim in the query, or nil when none matches.
func expandSynonyms(query string) []string {
	for _, entry := range domainSynonyms {
		if strings.Contains(query, entry.Term) {
			return entry.Synonyms
		}
	}
	return nil
}
