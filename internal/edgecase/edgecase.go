// Package edgecase pre-filters user messages before any provider call.
// Classification is a pure function over the input string, so disallowed
// content gets a bounded-latency response regardless of provider health.
package edgecase

import (
	"regexp"
	"strings"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// Actions a Response may instruct the caller to take.
const (
	// ActionStopSession means no further provider calls for this session
	// until a new one is created.
	ActionStopSession = "STOP_SESSION"

	// ActionGenerateFinalReport ends the interview gracefully with a
	// performance summary.
	ActionGenerateFinalReport = "GENERATE_FINAL_REPORT"
)

// Categories, in priority order. First match wins.
const (
	CategoryEmergency        = "emergency"
	CategoryInappropriate    = "inappropriate"
	CategoryAggressive       = "aggressive"
	CategoryTooShort         = "tooShort"
	CategoryIDontKnow        = "iDontKnow"
	CategoryAskingForAnswers = "askingForAnswers"
	CategoryWantsToEnd       = "wantsToEnd"
	CategoryOffTopic         = "offTopic"
	CategoryTooLong          = "tooLong"
)

// Feedback is the coaching block attached to a canned response. The same
// shape the interview evaluator produces, so callers render both paths
// identically.
type Feedback struct {
	Score      int    `json:"score"`
	Analysis   string `json:"analysis"`
	Good       string `json:"good"`
	Bad        string `json:"bad"`
	Suggestion string `json:"suggestion"`
}

// Response is a canned, language-selected reply for a matched category.
type Response struct {
	Category        string    `json:"category"`
	Dialogue        string    `json:"dialogue"`
	Feedback        *Feedback `json:"feedback,omitempty"`
	Stage           string    `json:"stage"`
	EmotionDetected string    `json:"emotion_detected"`
	Action          string    `json:"action,omitempty"`
}

// patternSet holds the per-language detection regexes for one category.
type patternSet struct {
	es *regexp.Regexp
	en *regexp.Regexp
}

func (p patternSet) match(lang, text string) bool {
	if lang == "es" {
		return p.es.MatchString(text)
	}
	return p.en.MatchString(text)
}

var (
	emergencyPat = patternSet{
		es: regexp.MustCompile(`(?i)\b(quiero morir|me quiero suicidar|necesito ayuda urgente|emergencia|abuso|violencia)\b`),
		en: regexp.MustCompile(`(?i)\b(i want to die|want to kill myself|need urgent help|emergency|abuse|violence)\b`),
	}
	inappropriatePat = patternSet{
		es: regexp.MustCompile(`(?i)\b(desnud|sexual|droga|suicid|matar|morir|arma|pistola|bomb)\b`),
		en: regexp.MustCompile(`(?i)\b(nude|naked|sexual|drug|suicid|kill|die|weapon|gun|bomb)\b`),
	}
	aggressivePat = patternSet{
		es: regexp.MustCompile(`(?i)\b(mierda|idiota|estúpido|imbécil|pendejo|pelotudo|hijo de|vete a la|cállate|basura|inútil|maldito)\b`),
		en: regexp.MustCompile(`(?i)\b(fuck|shit|damn|stupid|idiot|shut up|asshole|bitch|bastard|useless|trash)\b`),
	}
	iDontKnowPat = patternSet{
		es: regexp.MustCompile(`(?i)^(no sé|no se|ni idea|no tengo idea|paso|nada|npi|ns|nc)\.?$`),
		en: regexp.MustCompile(`(?i)^(i don'?t know|no idea|pass|nothing|idk|dunno|no clue)\.?$`),
	}
	askingForAnswersPat = patternSet{
		es: regexp.MustCompile(`(?i)\b(dame la respuesta|dime qué decir|dime qué digo|responde por mí|cuál es la respuesta correcta|qué debería decir)\b`),
		en: regexp.MustCompile(`(?i)\b(give me the answer|tell me what to say|answer for me|what'?s the right answer|what should i say)\b`),
	}
	wantsToEndPat = patternSet{
		es: regexp.MustCompile(`(?i)\b(terminar|finalizar|ya no quiero|me voy|chau|adiós|salir|parar|basta)\b`),
		en: regexp.MustCompile(`(?i)\b(end|finish|stop|quit|bye|goodbye|leave|done|enough)\b`),
	}
	offTopicPat = patternSet{
		es: regexp.MustCompile(`(?i)\b(fútbol|partido|gol|messi|ronaldo|clima|lluvia|netflix|película|novela|receta|cocina|horóscopo|signo)\b`),
		en: regexp.MustCompile(`(?i)\b(football|soccer|game|score|weather|rain|netflix|movie|recipe|cooking|horoscope|zodiac)\b`),
	}
)

// tooLongWords is the word count past which an answer is flagged for a
// post-hoc synthesis-coaching overlay. Never blocks the turn.
const tooLongWords = 500

// offTopicMaxWords bounds off-topic detection to short messages; longer
// answers that merely mention a distractor word get a real evaluation.
const offTopicMaxWords = 15

// normalizeLang collapses locale variants ("es-AR", "ES") onto the two
// supported response tables.
func normalizeLang(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "es") {
		return "es"
	}
	return "en"
}

// Classify evaluates message against the ordered category list and returns
// the canned response for the first match, or nil when the message is clean
// and should proceed to the provider pipeline.
func Classify(message, lang string) *Response {
	l := normalizeLang(lang)

	if emergencyPat.match(l, message) {
		L_warn("edgecase: emergency detected", "lang", l)
		return response(CategoryEmergency, l)
	}
	if inappropriatePat.match(l, message) {
		L_info("edgecase: inappropriate content detected", "lang", l)
		return response(CategoryInappropriate, l)
	}
	if aggressivePat.match(l, message) {
		L_info("edgecase: aggressive language detected", "lang", l)
		return response(CategoryAggressive, l)
	}
	if len(strings.TrimSpace(message)) < 3 {
		L_debug("edgecase: response too short")
		return response(CategoryTooShort, l)
	}
	if iDontKnowPat.match(l, strings.TrimSpace(message)) {
		L_debug("edgecase: i-don't-know response")
		return response(CategoryIDontKnow, l)
	}
	if askingForAnswersPat.match(l, message) {
		L_debug("edgecase: asking for the answer")
		return response(CategoryAskingForAnswers, l)
	}
	if wantsToEndPat.match(l, message) {
		L_info("edgecase: user wants to end the session", "lang", l)
		return response(CategoryWantsToEnd, l)
	}
	if offTopicPat.match(l, message) && wordCount(message) < offTopicMaxWords {
		L_debug("edgecase: off-topic detected")
		return response(CategoryOffTopic, l)
	}

	// Too-long is deliberately non-blocking: the caller checks IsTooLong
	// after the provider answers and overlays synthesis feedback.
	return nil
}

// IsTooLong reports whether message exceeds the word budget. Used for the
// post-hoc feedback overlay, never to short-circuit a turn.
func IsTooLong(message string) bool {
	return wordCount(message) > tooLongWords
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
