package model

// Taxonomy is the accepted classification vocabulary, derived from the
// corpus at load time: the set of known dimensions and the tag vocabulary.
type Taxonomy struct {
	ProjectID  string
	Dimensions []string
	Tags       []string
}

// HasDimension reports whether the dimension is part of the taxonomy.
func (t Taxonomy) HasDimension(dim string) bool {
	for _, d := range t.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// HasTag reports whether the tag is part of the vocabulary.
func (t Taxonomy) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}
