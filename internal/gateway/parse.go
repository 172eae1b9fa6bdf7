package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bricktrack/internal/model"
)

// flexText accepts a JSON string or number and keeps it as text. Models
// answer "totalPieces": 3696 as often as "totalPieces": "3696".
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexText(strings.TrimSpace(s))
	default:
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			// 布尔或对象按空值处理 / Booleans and objects count as empty
			*f = ""
			return nil
		}
		*f = flexText(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

type draftReply struct {
	Name        flexText `json:"name"`
	SetNumber   flexText `json:"setNumber"`
	TotalPieces flexText `json:"totalPieces"`
	TotalBags   flexText `json:"totalBags"`
	Theme       flexText `json:"theme"`
	ImageURL    flexText `json:"imageUrl"`
}

func (r draftReply) draft() model.Draft {
	return model.Draft{
		Name:        string(r.Name),
		SetNumber:   string(r.SetNumber),
		TotalPieces: string(r.TotalPieces),
		TotalBags:   string(r.TotalBags),
		Theme:       string(r.Theme),
		ImageURL:    string(r.ImageURL),
	}
}

var errNoJSON = errors.New("no JSON object in reply")

// parseDraft extracts the first JSON object from a model reply, tolerating
// markdown fences and surrounding prose.
func parseDraft(text string) (model.Draft, error) {
	obj, err := extractObject(text)
	if err != nil {
		return model.Draft{}, err
	}
	var reply draftReply
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return model.Draft{}, fmt.Errorf("decode reply: %w", err)
	}
	return reply.draft(), nil
}

func extractObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errNoJSON
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return text[start : end+1], nil
}
