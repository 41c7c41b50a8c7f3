package schemas

import (
	"time"

	"github.com/google/uuid"
)

// -- Element Descriptor Schemas --

// ElementDescriptor is a deterministic, serializable description of a single
// DOM element at capture time. It carries structural identifiers sufficient to
// relocate the element (full XPath, CSS selector) alongside its semantic
// attributes (accessible label, value, visible text, raw markup).
//
// The record is constructed once and never mutated. Identifiers are a
// snapshot-time fact: they are not guaranteed to survive DOM mutation.
//
// Absence semantics differ by field and are part of the contract:
//   - ID is empty when the element has no id attribute.
//   - Value and Text are nil when blank; a blank value collapses to "no data".
//   - Label and ValueLabel are always present, empty string meaning "none".
type ElementDescriptor struct {
	URL         string  `json:"url"`
	TagName     string  `json:"tagName"`
	ID          string  `json:"id,omitempty"`
	FullXPath   string  `json:"fullXPath"`
	CSSSelector string  `json:"cssSelector"`
	OuterHTML   string  `json:"outerHTML"`
	Value       *string `json:"value,omitempty"`
	ValueLabel  string  `json:"valueLabel"`
	Text        *string `json:"text,omitempty"`
	Label       string  `json:"label"`
	TimeStamp   int64   `json:"timeStamp"`
}

// RefDescriptor pairs a snapshot reference token with its computed descriptor
// and an illustrative invocation line a caller can replay.
type RefDescriptor struct {
	Ref        string             `json:"ref"`
	Code       string             `json:"code,omitempty"`
	Descriptor *ElementDescriptor `json:"descriptor"`
}

// DescribeEnvelope is the unit of output for a describe invocation. One
// envelope covers a single snapshot capture; each requested ref contributes
// one entry to Elements.
type DescribeEnvelope struct {
	CaptureID string          `json:"captureId"`
	PageURL   string          `json:"pageUrl"`
	Timestamp int64           `json:"timestamp"`
	Elements  []RefDescriptor `json:"elements"`
}

// NewDescribeEnvelope stamps a fresh envelope for the given page.
func NewDescribeEnvelope(pageURL string, elements []RefDescriptor) *DescribeEnvelope {
	return &DescribeEnvelope{
		CaptureID: uuid.New().String(),
		PageURL:   pageURL,
		Timestamp: time.Now().UnixMilli(),
		Elements:  elements,
	}
}

// RefListEnvelope is the output of the refs command: the tokens a snapshot
// handed out, in document order, with a short preview per element.
type RefListEnvelope struct {
	CaptureID string     `json:"captureId"`
	PageURL   string     `json:"pageUrl"`
	Timestamp int64      `json:"timestamp"`
	Refs      []RefEntry `json:"refs"`
}

// RefEntry previews a referenced element without computing its full descriptor.
type RefEntry struct {
	Ref     string `json:"ref"`
	TagName string `json:"tagName"`
	Preview string `json:"preview,omitempty"`
}
