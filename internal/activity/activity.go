// Package activity models the applications and categories a focus area can block.
// Tokens are opaque identifiers; the picker only ever deals in whole selections.
package activity

import "sort"

// Token identifies a blockable application or category.
type Token string

// Entry is one row of the picker catalog.
type Entry struct {
	Token    Token
	Name     string
	Category bool
}

// Selection holds the chosen application and category tokens.
// Both sets are deduplicated by construction.
type Selection struct {
	Applications map[Token]struct{}
	Categories   map[Token]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		Applications: map[Token]struct{}{},
		Categories:   map[Token]struct{}{},
	}
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := NewSelection()
	for t := range s.Applications {
		out.Applications[t] = struct{}{}
	}
	for t := range s.Categories {
		out.Categories[t] = struct{}{}
	}
	return out
}

// Toggle flips membership of the catalog entry in the selection.
func (s Selection) Toggle(e Entry) {
	set := s.Applications
	if e.Category {
		set = s.Categories
	}
	if _, ok := set[e.Token]; ok {
		delete(set, e.Token)
	} else {
		set[e.Token] = struct{}{}
	}
}

// Contains reports whether the entry is selected.
func (s Selection) Contains(e Entry) bool {
	if e.Category {
		_, ok := s.Categories[e.Token]
		return ok
	}
	_, ok := s.Applications[e.Token]
	return ok
}

// Count returns the total number of selected tokens.
func (s Selection) Count() int {
	return len(s.Applications) + len(s.Categories)
}

// SortedTokens returns all selected tokens in stable order, for rendering.
func (s Selection) SortedTokens() []Token {
	out := make([]Token, 0, s.Count())
	for t := range s.Applications {
		out = append(out, t)
	}
	for t := range s.Categories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Catalog lists everything the picker can offer. The set is fixed: the
// enforcement layer owns the real inventory, this is its display projection.
func Catalog() []Entry {
	return []Entry{
		{Token: "category.social", Name: "Social", Category: true},
		{Token: "category.games", Name: "Games", Category: true},
		{Token: "category.entertainment", Name: "Entertainment", Category: true},
		{Token: "app.instagram", Name: "Instagram"},
		{Token: "app.tiktok", Name: "TikTok"},
		{Token: "app.youtube", Name: "YouTube"},
		{Token: "app.x", Name: "X"},
		{Token: "app.reddit", Name: "Reddit"},
	}
}
