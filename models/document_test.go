package models

import (
	"encoding/json"
	"testing"
)

func strptr(s string) *string { return &s }

func TestSetHierarchy_MirrorsRadioLevels(t *testing.T) {
	var d SearchDocument
	d.SetHierarchy([HierarchyDepth]*string{
		strptr("Guide"), strptr("Install"), strptr("Linux"),
		nil, nil, nil, nil,
	})

	for i, pair := range [][2]*string{
		{d.HierarchyLvl0, d.HierarchyRadioLvl0},
		{d.HierarchyLvl1, d.HierarchyRadioLvl1},
		{d.HierarchyLvl2, d.HierarchyRadioLvl2},
		{d.HierarchyLvl3, d.HierarchyRadioLvl3},
		{d.HierarchyLvl4, d.HierarchyRadioLvl4},
		{d.HierarchyLvl5, d.HierarchyRadioLvl5},
	} {
		lvl, radio := pair[0], pair[1]
		if (lvl == nil) != (radio == nil) {
			t.Fatalf("level %d: lvl nil=%v, radio nil=%v", i, lvl == nil, radio == nil)
		}
		if lvl != nil && *lvl != *radio {
			t.Errorf("level %d: lvl %q != radio %q", i, *lvl, *radio)
		}
	}
	if d.HierarchyLvl3 != nil {
		t.Errorf("HierarchyLvl3 = %q, want nil", *d.HierarchyLvl3)
	}
}

func TestSetHierarchy_CopiesValues(t *testing.T) {
	title := "Guide"
	var levels [HierarchyDepth]*string
	levels[0] = &title

	var d SearchDocument
	d.SetHierarchy(levels)
	title = "mutated"

	if got := d.Title(); got != "Guide" {
		t.Fatalf("Title() = %q after source mutation, want %q", got, "Guide")
	}
}

// Consumers of the emitted JSON distinguish a null level from a missing
// key, so every schema field must be present on every document.
func TestDocumentJSON_OptionalFieldsAreNullNotOmitted(t *testing.T) {
	d := SearchDocument{ObjectID: "abc", URL: "https://docs.example.com/"}
	d.SetHierarchy([HierarchyDepth]*string{strptr("Guide"), nil, nil, nil, nil, nil, nil})

	data, err := json.Marshal(&d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"objectID", "content", "url", "anchor",
		"hierarchy_lvl0", "hierarchy_lvl1", "hierarchy_lvl2", "hierarchy_lvl3",
		"hierarchy_lvl4", "hierarchy_lvl5", "hierarchy_lvl6",
		"hierarchy_radio_lvl0", "hierarchy_radio_lvl1", "hierarchy_radio_lvl2",
		"hierarchy_radio_lvl3", "hierarchy_radio_lvl4", "hierarchy_radio_lvl5",
		"lang", "level", "position", "page_rank",
	} {
		if _, ok := obj[key]; !ok {
			t.Errorf("emitted JSON is missing key %q", key)
		}
	}
	if obj["anchor"] != nil {
		t.Errorf("anchor = %v, want null", obj["anchor"])
	}
	if obj["hierarchy_lvl6"] != nil {
		t.Errorf("hierarchy_lvl6 = %v, want null", obj["hierarchy_lvl6"])
	}
	if _, ok := obj["hierarchy_radio_lvl6"]; ok {
		t.Error("emitted JSON has hierarchy_radio_lvl6, schema stops at radio level 5")
	}
}

func TestDeepestHeading(t *testing.T) {
	var d SearchDocument
	if got := d.DeepestHeading(); got != "" {
		t.Errorf("DeepestHeading() on empty document = %q, want empty", got)
	}

	d.SetHierarchy([HierarchyDepth]*string{
		strptr("Guide"), strptr("Install"), nil, strptr("Notes"),
		nil, nil, nil,
	})
	if got := d.DeepestHeading(); got != "Notes" {
		t.Errorf("DeepestHeading() = %q, want %q", got, "Notes")
	}
}
