package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"finn-mini/internal/models"
)

const (
	DefaultMaxTips = 5
	replyPreamble  = "Here are a few things to try:"
)

var bulletLine = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)

type ComposerOptions struct {
	MaxTips int
	// ExtractTips=false turns every hit into a single whole-text tip.
	ExtractTips bool
}

// ReplyComposer turns retrieved hits into a numbered reply with citations.
type ReplyComposer struct {
	opts ComposerOptions
}

func NewReplyComposer(opts ComposerOptions) *ReplyComposer {
	if opts.MaxTips <= 0 {
		opts.MaxTips = DefaultMaxTips
	}
	return &ReplyComposer{opts: opts}
}

// ExtractTips returns the bullet items of text, or its sentences when no
// line is a bullet. Sentences keep their terminal punctuation.
func ExtractTips(text string) []string {
	var tips []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := bulletLine.FindStringSubmatch(line); m != nil {
			if tip := strings.TrimSpace(m[1]); tip != "" {
				tips = append(tips, tip)
			}
		}
	}
	if len(tips) > 0 {
		return tips
	}
	return splitSentences(text)
}

// splitSentences cuts text at whitespace runs that directly follow
// '.', '!' or '?'.
func splitSentences(text string) []string {
	var out []string
	start := 0
	prevEnd := false
	for i, r := range text {
		if unicode.IsSpace(r) && prevEnd {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				out = append(out, s)
			}
			start = i
		}
		prevEnd = r == '.' || r == '!' || r == '?'
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// Compose collects unique tips across hits in rank order up to MaxTips.
// A hit is cited once it yields at least one tip; processing stops after
// the hit that fills the cap.
func (c *ReplyComposer) Compose(hits []models.Hit) models.ChatResponse {
	tips := make([]string, 0, c.opts.MaxTips)
	seen := make(map[string]struct{})
	citations := make([]models.Citation, 0, len(hits))

	for _, h := range hits {
		extracted := c.extract(h.Text)
		if len(extracted) == 0 {
			continue
		}
		for _, t := range extracted {
			if len(tips) >= c.opts.MaxTips {
				break
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tips = append(tips, t)
		}
		citations = append(citations, models.Citation{Title: h.Title, ChunkID: h.ChunkID})
		if len(tips) >= c.opts.MaxTips {
			break
		}
	}

	if len(tips) == 0 && len(hits) > 0 {
		top := hits[0]
		if text := strings.TrimSpace(top.Text); text != "" {
			tips = append(tips, text)
			citations = []models.Citation{{Title: top.Title, ChunkID: top.ChunkID}}
		}
	}

	return models.ChatResponse{
		Reply:     renderReply(tips),
		Citations: citations,
	}
}

func (c *ReplyComposer) extract(text string) []string {
	if !c.opts.ExtractTips {
		if t := strings.TrimSpace(text); t != "" {
			return []string{t}
		}
		return nil
	}
	return ExtractTips(text)
}

func renderReply(tips []string) string {
	var b strings.Builder
	b.WriteString(replyPreamble)
	b.WriteString("\n")
	for i, t := range tips {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(t)
	}
	return b.String()
}
