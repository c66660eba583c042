package services

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"fitroom/models"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// InlineData carries raw image bytes for one request part, base64-encoded
// with the MIME type the client declared.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one text or inline-image unit inside a turn. Exactly one field is
// set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// Content is one role-tagged turn of the multi-turn generation request.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// ImageUpload is a newly attached image: raw bytes plus the declared MIME
// type.
type ImageUpload struct {
	MimeType string
	Data     []byte
}

var dataURLPattern = regexp.MustCompile(`^data:(.+?);base64,(.+)$`)

// ParseDataURL splits a data:<mime>;base64,<payload> string. ok is false for
// anything that does not match the pattern exactly.
func ParseDataURL(url string) (mimeType, payload string, ok bool) {
	m := dataURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// MakeDataURL is the inverse of ParseDataURL.
func MakeDataURL(mimeType, payload string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, payload)
}

// BuildContents turns a trial's prior messages plus the new user turn into
// the ordered turn sequence for the generation request.
//
// Each prior message becomes one turn: text part first, then the stored image
// as an inline part. A stored imageUrl that is not a well-formed data URL
// contributes no image part; the message's text still goes through. The new
// turn carries the prompt (prefixed with the outfit description when one is
// supplied) followed by every uploaded image in attachment order; when the
// prompt is empty and images are attached, the turn has image parts only.
func BuildContents(history []models.Message, prompt, description string, images []ImageUpload) []Content {
	contents := make([]Content, 0, len(history)+1)

	for _, msg := range history {
		role := roleUser
		if msg.Sender == models.SenderAssistant {
			role = roleModel
		}

		var parts []Part
		if msg.Text != "" {
			parts = append(parts, Part{Text: msg.Text})
		}
		if msg.ImageURL != "" {
			if mimeType, payload, ok := ParseDataURL(msg.ImageURL); ok {
				parts = append(parts, Part{InlineData: &InlineData{
					MimeType: mimeType,
					Data:     payload,
				}})
			}
		}
		if len(parts) == 0 {
			continue
		}

		contents = append(contents, Content{Role: role, Parts: parts})
	}

	text := prompt
	if description != "" {
		text = fmt.Sprintf("[Outfit Description: %s] \n\n %s", description, prompt)
	}

	// An empty text part would serialize as {}, which the generation API
	// rejects; an image-only turn carries just its image parts.
	var parts []Part
	if text != "" {
		parts = append(parts, Part{Text: text})
	}
	for _, img := range images {
		parts = append(parts, Part{InlineData: &InlineData{
			MimeType: img.MimeType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}

	return append(contents, Content{Role: roleUser, Parts: parts})
}

// ParseReply collapses a generation response into one assistant message:
// every text part of the first candidate concatenated in order, and the last
// inline-image part re-assembled into a data URL. Earlier image parts are
// discarded. An empty response yields an empty message.
func ParseReply(resp GenerateResponse) models.Message {
	msg := models.Message{
		Sender:    models.SenderAssistant,
		CreatedAt: time.Now(),
	}

	if len(resp.Candidates) == 0 {
		return msg
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			msg.Text += part.Text
		}
		if part.InlineData != nil {
			msg.ImageURL = MakeDataURL(part.InlineData.MimeType, part.InlineData.Data)
		}
	}

	return msg
}
