package dribbble

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"dribbble-scraper/lib/htmlutil"
	"dribbble-scraper/lib/textutil"

	"github.com/titanous/json5"
)

const (
	report_metadata_fetch   = "metadata.fetch"
	report_metadata_payload = "metadata.payload"
)

const shotDataSignature = "shotData"

// shotDataAssignment matches the signature used as an object key or an
// assignment target, mentions like `window.shotData)` don't count.
var shotDataAssignment = regexp.MustCompile(shotDataSignature + `\s*[:=]`)

var errNoPayload = errors.New("no embedded shot data")

// emptyMetadata has every field absent.
func emptyMetadata() Metadata {
	return Metadata{ColorPalette: []string{}}
}

// findObject returns the object literal that starts at the first '{' after
// offset, matching braces outside of string literals.
func findObject(source string, offset int) (string, bool) {
	start := strings.IndexByte(source[offset:], '{')
	if start < 0 {
		return "", false
	}
	start += offset

	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(source); i++ {
		ch := source[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[start : i+1], true
			}
		}
	}
	return "", false
}

// shotDataPayload finds the script carrying the shot data object and decodes
// it, scripts are told apart by content rather than position. A script whose
// object fails to decode is skipped, the last decode error is returned only
// when no script decodes.
func shotDataPayload(doc htmlutil.Extractor) (map[string]any, error) {
	var decodeErr error
	for _, node := range doc.All("script") {
		script := htmlutil.GetText(node.Node())
		for _, loc := range shotDataAssignment.FindAllStringIndex(script, -1) {
			literal, ok := findObject(script, loc[1])
			if !ok {
				continue
			}
			var payload map[string]any
			err := json5.Unmarshal([]byte(literal), &payload)
			if err != nil {
				decodeErr = fmt.Errorf("decode %s: %w", shotDataSignature, err)
				continue
			}
			return payload, nil
		}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return nil, errNoPayload
}

func payloadCount(value any) int {
	switch v := value.(type) {
	case float64:
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case string:
		return textutil.ParseCompactCount(v)
	}
	return 0
}

func payloadBool(value any) *bool {
	v, ok := value.(bool)
	if !ok {
		return nil
	}
	return &v
}

func payloadStrings(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := []string{}
	for _, item := range list {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			// tags are sometimes objects carrying a name
			if name, ok := v["name"].(string); ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// applyPayload copies the shot data fields into md, the returned error is
// only about the published date, every other field degrades to absent.
func applyPayload(md *Metadata, payload map[string]any) error {
	md.Likes = payloadCount(payload["likesCount"])
	md.SavesCount = payloadCount(payload["savesCount"])
	md.ViewsCount = payloadCount(payload["viewsCount"])
	md.IsAnimated = payloadBool(payload["isAnimated"])
	md.IsAnimatedGif = payloadBool(payload["isAnimatedGif"])
	md.Tags = payloadStrings(payload["tags"])

	postedOn, ok := payload["postedOn"].(string)
	if !ok {
		return nil
	}
	date, err := textutil.ParseDate(postedOn)
	if err != nil {
		return err
	}
	md.PublishedDate = &date
	return nil
}

// extractMetadata reads the color palette and the embedded shot data off an
// item page.
func (s *Scraper) extractMetadata(doc htmlutil.Extractor, link string) Metadata {
	md := emptyMetadata()
	for _, color := range doc.AllValues("ul.color-chips.group li a", htmlutil.Text) {
		md.ColorPalette = append(md.ColorPalette, textutil.Clean(color))
	}

	payload, err := shotDataPayload(doc)
	if err != nil {
		s.tel.ReportWarning(report_metadata_payload, err, link)
		return md
	}
	// the shot data is nested under its own key
	if inner, ok := payload[shotDataSignature].(map[string]any); ok {
		payload = inner
	}
	err = applyPayload(&md, payload)
	if err != nil {
		s.tel.ReportWarning(report_metadata_payload, err, link)
	}
	return md
}

// fetchMetadata fetches a single item page, a failed fetch gives metadata with
// every field absent.
func (s *Scraper) fetchMetadata(ctx context.Context, link string) Metadata {
	doc, err := s.client.document(ctx, link)
	if err != nil {
		s.tel.ReportBroken(report_metadata_fetch, err, link)
		return emptyMetadata()
	}
	return s.extractMetadata(htmlutil.FromDocument(doc), link)
}

// enrich fetches metadata for every item in order, one at a time.
func enrich[T any](ctx context.Context, s *Scraper, name string, order []string, items map[string]T, link func(T) *string, set func(*T, Metadata)) error {
	for i, key := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, ok := items[key]
		if !ok {
			continue
		}
		md := emptyMetadata()
		if url := link(item); url != nil {
			md = s.fetchMetadata(ctx, *url)
		}
		set(&item, md)
		items[key] = item
		s.tel.ReportInfo(fmt.Sprintf("%s: metadata %d of %d scraped", name, i+1, len(order)))
	}
	return nil
}
