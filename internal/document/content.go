package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ContentType tags the payload shape a section holds. The set is closed;
// payloads are validated at proposal time, not at render time.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentTable     ContentType = "table"
	ContentImage     ContentType = "image"
	ContentEquation  ContentType = "equation"
	ContentFlowchart ContentType = "flowchart"
)

var contentTypes = map[ContentType]struct{}{
	ContentText:      {},
	ContentTable:     {},
	ContentImage:     {},
	ContentEquation:  {},
	ContentFlowchart: {},
}

// ParseContentType validates a content type tag.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentTypes[ct]; !ok {
		return "", fmt.Errorf("unknown content type: %q", s)
	}
	return ct, nil
}

// TablePayload is the structured payload for table sections.
type TablePayload struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ImagePayload is the structured payload for image sections. Data holds the
// base64 encoded bytes; the core never decodes it.
type ImagePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// FlowchartPayload is the structured payload for flowchart sections.
type FlowchartPayload struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// ValidateContent checks that a payload matches the declared content type.
// Text and equation sections hold free text. Table, image and flowchart
// sections hold JSON payloads with a fixed shape.
func ValidateContent(ct ContentType, content string) error {
	switch ct {
	case ContentText, ContentEquation:
		return nil
	case ContentTable:
		if content == "" {
			return nil
		}
		var table TablePayload
		if err := strictUnmarshal(content, &table); err != nil {
			return fmt.Errorf("%w: table payload: %v", ErrContentTypeMismatch, err)
		}
		for i, row := range table.Rows {
			if len(table.Headers) > 0 && len(row) != len(table.Headers) {
				return fmt.Errorf("%w: table row %d has %d cells, want %d", ErrContentTypeMismatch, i, len(row), len(table.Headers))
			}
		}
		return nil
	case ContentImage:
		if content == "" {
			return nil
		}
		var img ImagePayload
		if err := strictUnmarshal(content, &img); err != nil {
			return fmt.Errorf("%w: image payload: %v", ErrContentTypeMismatch, err)
		}
		if img.Data == "" {
			return fmt.Errorf("%w: image payload has no data", ErrContentTypeMismatch)
		}
		return nil
	case ContentFlowchart:
		if content == "" {
			return nil
		}
		var chart FlowchartPayload
		if err := strictUnmarshal(content, &chart); err != nil {
			return fmt.Errorf("%w: flowchart payload: %v", ErrContentTypeMismatch, err)
		}
		nodes := make(map[string]struct{}, len(chart.Nodes))
		for _, n := range chart.Nodes {
			nodes[n] = struct{}{}
		}
		for _, e := range chart.Edges {
			if _, ok := nodes[e[0]]; !ok {
				return fmt.Errorf("%w: flowchart edge references unknown node %q", ErrContentTypeMismatch, e[0])
			}
			if _, ok := nodes[e[1]]; !ok {
				return fmt.Errorf("%w: flowchart edge references unknown node %q", ErrContentTypeMismatch, e[1])
			}
		}
		return nil
	}

	return fmt.Errorf("unknown content type: %q", ct)
}

func strictUnmarshal(content string, v any) error {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
