package model

import (
	"encoding/json"
	"testing"
)

func TestProblemTagsTolerateGarbage(t *testing.T) {
	p := &Problem{
		Slug:      "two-sum",
		Topics:    json.RawMessage(`["Array","Hash Table"]`),
		Companies: json.RawMessage(`{"oops"`),
	}
	if got := p.TopicTags(); len(got) != 2 {
		t.Fatalf("topics = %v", got)
	}
	if got := p.CompanyTags(); len(got) != 0 {
		t.Fatalf("garbage companies must parse to empty, got %v", got)
	}

	empty := &Problem{Slug: "blank"}
	if got := empty.TopicTags(); len(got) != 0 {
		t.Fatalf("missing topics must be empty, got %v", got)
	}
}
