package domain

import (
	"sort"
)

// MaxAnalysisChars bounds the text sent to the analysis engine.
const MaxAnalysisChars = 4096

func TruncateForAnalysis(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxAnalysisChars {
		return text
	}
	return string(runes[:MaxAnalysisChars])
}

// DominantLanguage picks the highest score; ties go to the earliest detection.
func DominantLanguage(languages []DetectedLanguage) (DetectedLanguage, error) {
	if len(languages) == 0 {
		return DetectedLanguage{}, ErrNoLanguageDetected
	}
	sorted := make([]DetectedLanguage, len(languages))
	copy(sorted, languages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted[0], nil
}
