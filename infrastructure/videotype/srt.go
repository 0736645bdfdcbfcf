package videotype

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"subtitle-widget/domain/model"

	"github.com/asticode/go-astisub"
)

var utf8BOM = []byte("\ufeff")

// RenderSRT writes the synced subtitles in SubRip format, ordered by their position.
// A version without synced subtitles renders as an empty body.
func RenderSRT(subtitles []model.Subtitle) (string, error) {
	synced := make([]model.Subtitle, 0, len(subtitles))
	for _, s := range subtitles {
		if s.IsSynced() {
			synced = append(synced, s)
		}
	}
	if len(synced) == 0 {
		return "", nil
	}
	sort.SliceStable(synced, func(i, j int) bool { return synced[i].Order < synced[j].Order })

	subs := astisub.NewSubtitles()
	for _, s := range synced {
		item := &astisub.Item{
			StartAt: time.Duration(s.StartTime) * time.Millisecond,
			EndAt:   time.Duration(s.EndTime) * time.Millisecond,
		}
		for _, line := range strings.Split(s.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{Items: []astisub.LineItem{{Text: line}}})
		}
		subs.Items = append(subs.Items, item)
	}

	var buf bytes.Buffer
	if err := subs.WriteToSRT(&buf); err != nil {
		return "", err
	}
	out := bytes.TrimPrefix(buf.Bytes(), utf8BOM)
	return strings.TrimRight(string(out), "\n") + "\n", nil
}
