package domain

import (
	"fmt"
	"math"
	"strings"
)

// CueLeadIn keeps every cue from starting exactly on the previous boundary.
const CueLeadIn = 0.1

type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// SubtitleCues splits duration seconds evenly across titles.
func SubtitleCues(titles []string, duration float64) []Cue {
	if len(titles) == 0 {
		return nil
	}
	segment := duration / float64(len(titles))
	cues := make([]Cue, 0, len(titles))
	for i, title := range titles {
		cues = append(cues, Cue{
			Index: i + 1,
			Start: segment*float64(i) + CueLeadIn,
			End:   segment * float64(i+1),
			Text:  title,
		})
	}
	return cues
}

// SubtitleTitles frames the section titles with the article header and a closing footer.
func SubtitleTitles(header string, titles []string, footer string) []string {
	out := make([]string, 0, len(titles)+2)
	if header != "" {
		out = append(out, header)
	}
	out = append(out, titles...)
	if footer != "" {
		out = append(out, footer)
	}
	return out
}

func BuildSubtitleTrack(titles []string, duration float64) string {
	var builder strings.Builder
	for _, cue := range SubtitleCues(titles, duration) {
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s\n\n", cue.Index, Timecode(cue.Start), Timecode(cue.End), cue.Text)
	}
	return builder.String()
}

// Timecode formats seconds as HH:MM:SS,mmm. Both parts are truncated, so 6.1 renders as 06,099.
func Timecode(seconds float64) string {
	whole := int64(math.Floor(seconds))
	ms := int64(math.Floor(math.Mod(seconds, 1) * 1000))
	h := whole / 3600
	m := (whole / 60) % 60
	s := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
