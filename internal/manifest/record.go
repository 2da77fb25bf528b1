package manifest

import (
	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/specialistvlad/segprep/internal/catalog"
)

// Sentence is one free-text caption slot of a record.
type Sentence struct {
	Idx    int    `json:"idx"`
	SentID int    `json:"sent_id"`
	Sent   string `json:"sent"`
}

// Record is one annotation entry. Field order is the JSON field order the
// training data module reads.
type Record struct {
	BBox         bbox.Box        `json:"bbox"`
	Cat          int             `json:"cat"`
	SegmentID    string          `json:"segment_id"`
	ImgName      string          `json:"img_name"`
	MaskName     string          `json:"mask_name"`
	Sentences    []Sentence      `json:"sentences"`
	Prompts      catalog.Catalog `json:"prompts"`
	SentencesNum int             `json:"sentences_num"`
}

// newRecord builds the record for a matched file. Images and masks share a name.
func newRecord(name, segmentID string, box bbox.Box, category int, prompts catalog.Catalog) Record {
	return Record{
		BBox:         box,
		Cat:          category,
		SegmentID:    segmentID,
		ImgName:      name,
		MaskName:     name,
		Sentences:    []Sentence{{Idx: 0, SentID: 0, Sent: ""}},
		Prompts:      prompts,
		SentencesNum: 1,
	}
}
