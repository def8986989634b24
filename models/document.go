package models

// HierarchyDepth is the number of heading levels a document can carry:
// level 0 is the page title, levels 1 through 6 map to h1 through h6.
const HierarchyDepth = 7

// SearchDocument is one searchable record in the DocSearch schema.
// Optional fields are pointers so that absent levels serialize as JSON
// null instead of being omitted; search frontends distinguish the two.
type SearchDocument struct {
	ObjectID string  `json:"objectID"`
	Content  string  `json:"content"`
	URL      string  `json:"url"`
	Anchor   *string `json:"anchor"`

	HierarchyLvl0 *string `json:"hierarchy_lvl0"`
	HierarchyLvl1 *string `json:"hierarchy_lvl1"`
	HierarchyLvl2 *string `json:"hierarchy_lvl2"`
	HierarchyLvl3 *string `json:"hierarchy_lvl3"`
	HierarchyLvl4 *string `json:"hierarchy_lvl4"`
	HierarchyLvl5 *string `json:"hierarchy_lvl5"`
	HierarchyLvl6 *string `json:"hierarchy_lvl6"`

	HierarchyRadioLvl0 *string `json:"hierarchy_radio_lvl0"`
	HierarchyRadioLvl1 *string `json:"hierarchy_radio_lvl1"`
	HierarchyRadioLvl2 *string `json:"hierarchy_radio_lvl2"`
	HierarchyRadioLvl3 *string `json:"hierarchy_radio_lvl3"`
	HierarchyRadioLvl4 *string `json:"hierarchy_radio_lvl4"`
	HierarchyRadioLvl5 *string `json:"hierarchy_radio_lvl5"`

	Lang     string  `json:"lang"`
	Level    int     `json:"level"`
	Position int     `json:"position"`
	PageRank float64 `json:"page_rank"`
}

// SetHierarchy fills the per-level heading fields from a snapshot of the
// heading stack. The radio fields mirror levels 0 through 5; the schema
// has no radio counterpart for level 6.
func (d *SearchDocument) SetHierarchy(levels [HierarchyDepth]*string) {
	d.HierarchyLvl0 = copyString(levels[0])
	d.HierarchyLvl1 = copyString(levels[1])
	d.HierarchyLvl2 = copyString(levels[2])
	d.HierarchyLvl3 = copyString(levels[3])
	d.HierarchyLvl4 = copyString(levels[4])
	d.HierarchyLvl5 = copyString(levels[5])
	d.HierarchyLvl6 = copyString(levels[6])

	d.HierarchyRadioLvl0 = copyString(levels[0])
	d.HierarchyRadioLvl1 = copyString(levels[1])
	d.HierarchyRadioLvl2 = copyString(levels[2])
	d.HierarchyRadioLvl3 = copyString(levels[3])
	d.HierarchyRadioLvl4 = copyString(levels[4])
	d.HierarchyRadioLvl5 = copyString(levels[5])
}

// Title returns the page title the document belongs to, which always sits
// at hierarchy level 0.
func (d *SearchDocument) Title() string {
	if d.HierarchyLvl0 == nil {
		return ""
	}
	return *d.HierarchyLvl0
}

// DeepestHeading returns the text of the most specific heading level set
// on the document, falling back to the page title.
func (d *SearchDocument) DeepestHeading() string {
	for _, lvl := range []*string{
		d.HierarchyLvl6, d.HierarchyLvl5, d.HierarchyLvl4,
		d.HierarchyLvl3, d.HierarchyLvl2, d.HierarchyLvl1,
		d.HierarchyLvl0,
	} {
		if lvl != nil {
			return *lvl
		}
	}
	return ""
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
