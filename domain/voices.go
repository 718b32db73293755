package domain

import (
	"fmt"
	"strings"
)

type Voice struct {
	VoiceID          string
	FullLanguageCode string
	Neural           bool
}

func (v Voice) Engine() Engine {
	if v.Neural {
		return NeuralEngine
	}
	return StandardEngine
}

// VoiceTable groups narration voices by bare language code ("en", "fr", ...).
type VoiceTable map[string][]Voice

// Chooser returns an index in [0, n).
type Chooser interface {
	Intn(n int) int
}

// Eligible filters by full language+region code, falling back to the whole language list
// when the code has no region or the region has no voices.
func (t VoiceTable) Eligible(languageCode string) ([]Voice, error) {
	language, region, _ := strings.Cut(languageCode, "-")
	voices := t[strings.ToLower(language)]
	if len(voices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, languageCode)
	}
	if region == "" {
		return voices, nil
	}
	regional := make([]Voice, 0, len(voices))
	for _, v := range voices {
		if strings.EqualFold(v.FullLanguageCode, languageCode) {
			regional = append(regional, v)
		}
	}
	if len(regional) == 0 {
		return voices, nil
	}
	return regional, nil
}

func (t VoiceTable) Pick(languageCode string, chooser Chooser) (Voice, error) {
	voices, err := t.Eligible(languageCode)
	if err != nil {
		return Voice{}, err
	}
	return voices[chooser.Intn(len(voices))], nil
}

// DefaultVoices is the narration engine voice catalogue.
var DefaultVoices = VoiceTable{
	"en": {
		{VoiceID: "Joanna", FullLanguageCode: "en-US", Neural: true},
		{VoiceID: "Matthew", FullLanguageCode: "en-US", Neural: true},
		{VoiceID: "Salli", FullLanguageCode: "en-US", Neural: true},
		{VoiceID: "Joey", FullLanguageCode: "en-US", Neural: true},
		{VoiceID: "Kendra", FullLanguageCode: "en-US", Neural: true},
		{VoiceID: "Justin", FullLanguageCode: "en-US", Neural: false},
		{VoiceID: "Amy", FullLanguageCode: "en-GB", Neural: true},
		{VoiceID: "Emma", FullLanguageCode: "en-GB", Neural: true},
		{VoiceID: "Brian", FullLanguageCode: "en-GB", Neural: true},
		{VoiceID: "Olivia", FullLanguageCode: "en-AU", Neural: true},
		{VoiceID: "Russell", FullLanguageCode: "en-AU", Neural: false},
		{VoiceID: "Aditi", FullLanguageCode: "en-IN", Neural: false},
		{VoiceID: "Geraint", FullLanguageCode: "en-GB-WLS", Neural: false},
	},
	"fr": {
		{VoiceID: "Lea", FullLanguageCode: "fr-FR", Neural: true},
		{VoiceID: "Celine", FullLanguageCode: "fr-FR", Neural: false},
		{VoiceID: "Mathieu", FullLanguageCode: "fr-FR", Neural: false},
		{VoiceID: "Gabrielle", FullLanguageCode: "fr-CA", Neural: true},
		{VoiceID: "Chantal", FullLanguageCode: "fr-CA", Neural: false},
	},
	"es": {
		{VoiceID: "Lucia", FullLanguageCode: "es-ES", Neural: true},
		{VoiceID: "Conchita", FullLanguageCode: "es-ES", Neural: false},
		{VoiceID: "Enrique", FullLanguageCode: "es-ES", Neural: false},
		{VoiceID: "Mia", FullLanguageCode: "es-MX", Neural: true},
		{VoiceID: "Lupe", FullLanguageCode: "es-US", Neural: true},
		{VoiceID: "Miguel", FullLanguageCode: "es-US", Neural: false},
	},
	"de": {
		{VoiceID: "Vicki", FullLanguageCode: "de-DE", Neural: true},
		{VoiceID: "Marlene", FullLanguageCode: "de-DE", Neural: false},
		{VoiceID: "Hans", FullLanguageCode: "de-DE", Neural: false},
	},
	"it": {
		{VoiceID: "Bianca", FullLanguageCode: "it-IT", Neural: true},
		{VoiceID: "Carla", FullLanguageCode: "it-IT", Neural: false},
		{VoiceID: "Giorgio", FullLanguageCode: "it-IT", Neural: false},
	},
	"pt": {
		{VoiceID: "Camila", FullLanguageCode: "pt-BR", Neural: true},
		{VoiceID: "Vitoria", FullLanguageCode: "pt-BR", Neural: false},
		{VoiceID: "Ricardo", FullLanguageCode: "pt-BR", Neural: false},
		{VoiceID: "Ines", FullLanguageCode: "pt-PT", Neural: true},
		{VoiceID: "Cristiano", FullLanguageCode: "pt-PT", Neural: false},
	},
	"ja": {
		{VoiceID: "Takumi", FullLanguageCode: "ja-JP", Neural: true},
		{VoiceID: "Mizuki", FullLanguageCode: "ja-JP", Neural: false},
	},
	"nl": {
		{VoiceID: "Lotte", FullLanguageCode: "nl-NL", Neural: false},
		{VoiceID: "Ruben", FullLanguageCode: "nl-NL", Neural: false},
	},
}
