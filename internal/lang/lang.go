package lang

import (
	"fmt"
	"strings"
)

// tesseractToISO maps Tesseract traineddata profiles to ISO 639-1 codes
// as used by the translation and TTS providers.
var tesseractToISO = map[string]string{
	"eng":     "en",
	"deu":     "de",
	"spa":     "es",
	"fra":     "fr",
	"ita":     "it",
	"por":     "pt",
	"nld":     "nl",
	"rus":     "ru",
	"jpn":     "ja",
	"kor":     "ko",
	"chi_sim": "zh-CN",
	"chi_tra": "zh-TW",
	"ara":     "ar",
	"hin":     "hi",
	"tur":     "tr",
	"pol":     "pl",
	"ces":     "cs",
	"ell":     "el",
	"heb":     "he",
	"tha":     "th",
	"vie":     "vi",
	"ind":     "id",
	"swe":     "sv",
	"nor":     "no",
	"dan":     "da",
	"fin":     "fi",
	"ron":     "ro",
	"bul":     "bg",
	"hrv":     "hr",
	"srp":     "sr",
	"ukr":     "uk",
	"fas":     "fa",
	"urd":     "ur",
	"ben":     "bn",
	"tam":     "ta",
	"tel":     "te",
}

// isoToName maps ISO 639-1 codes to display names shown in API responses.
var isoToName = map[string]string{
	"en":    "English",
	"de":    "German",
	"es":    "Spanish",
	"fr":    "French",
	"it":    "Italian",
	"pt":    "Portuguese",
	"nl":    "Dutch",
	"ru":    "Russian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"tr":    "Turkish",
	"pl":    "Polish",
	"cs":    "Czech",
	"el":    "Greek",
	"he":    "Hebrew",
	"th":    "Thai",
	"vi":    "Vietnamese",
	"id":    "Indonesian",
	"sv":    "Swedish",
	"no":    "Norwegian",
	"da":    "Danish",
	"fi":    "Finnish",
	"ro":    "Romanian",
	"bg":    "Bulgarian",
	"hr":    "Croatian",
	"sr":    "Serbian",
	"uk":    "Ukrainian",
	"fa":    "Persian",
	"ur":    "Urdu",
	"bn":    "Bengali",
	"ta":    "Tamil",
	"te":    "Telugu",
}

// ttsSupported lists the language codes the Google Translate TTS endpoint accepts.
var ttsSupported = map[string]bool{
	"en": true, "de": true, "es": true, "fr": true, "it": true,
	"pt": true, "nl": true, "ru": true, "ja": true, "ko": true,
	"zh-CN": true, "zh-TW": true, "ar": true, "hi": true, "tr": true,
	"pl": true, "cs": true, "el": true, "he": true, "th": true,
	"vi": true, "id": true, "fil": true, "sv": true, "no": true,
	"da": true, "fi": true, "ro": true, "bg": true, "hr": true,
	"sr": true, "uk": true,
}

// TesseractToISO converts a Tesseract profile to an ISO 639-1 code.
// Unknown profiles map to English, matching the detector's fallback bias.
func TesseractToISO(profile string) string {
	if iso, ok := tesseractToISO[profile]; ok {
		return iso
	}
	return "en"
}

// ISOToTesseract converts an ISO 639-1 code (or a BCP-47 tag) to a
// Tesseract profile, or an error if no traineddata mapping exists.
func ISOToTesseract(code string) (string, error) {
	normalized := normalize(code)
	for profile, iso := range tesseractToISO {
		if iso == normalized || strings.EqualFold(iso, code) {
			return profile, nil
		}
	}
	return "", fmt.Errorf("no tesseract profile for language %q", code)
}

// IsTesseractProfile reports whether code names a known traineddata profile.
func IsTesseractProfile(code string) bool {
	_, ok := tesseractToISO[code]
	return ok
}

// Name returns the display name for an ISO 639-1 code, or the code itself.
func Name(code string) string {
	if name, ok := isoToName[normalize(code)]; ok {
		return name
	}
	if name, ok := isoToName[code]; ok {
		return name
	}
	return code
}

// TTSSupported reports whether the TTS endpoint accepts the language code.
func TTSSupported(code string) bool {
	if ttsSupported[code] {
		return true
	}
	return ttsSupported[normalize(code)]
}

// normalize lowercases a tag and preserves the zh-CN/zh-TW region variants,
// which are the only region-qualified codes the providers distinguish.
func normalize(code string) string {
	lower := strings.ToLower(code)
	switch lower {
	case "zh-cn", "zh_cn", "zh":
		return "zh-CN"
	case "zh-tw", "zh_tw":
		return "zh-TW"
	}
	if idx := strings.IndexAny(lower, "-_"); idx > 0 {
		return lower[:idx]
	}
	return lower
}
