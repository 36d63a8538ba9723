package ingest

import "xsearch/internal/model"

// Author is the subset of a user object a record needs.
type Author struct {
	Username string
	Name     string
}

// Tables are the page-scoped lookup maps built from a page's includes.
// They must not be reused across pages.
type Tables struct {
	Authors map[string]Author
	// Posts maps a referenced post id to its text.
	Posts map[string]string
}

// Reconcile indexes the side-loaded users and posts of one page by id.
// Entries without an id are dropped; a later duplicate wins.
func Reconcile(inc model.RawIncludes) Tables {
	t := Tables{
		Authors: make(map[string]Author, len(inc.Users)),
		Posts:   make(map[string]string, len(inc.Tweets)),
	}
	for _, u := range inc.Users {
		if u.ID == "" {
			continue
		}
		t.Authors[u.ID] = Author{Username: u.Username, Name: u.Name}
	}
	for _, p := range inc.Tweets {
		if p.ID == "" {
			continue
		}
		t.Posts[p.ID] = p.Text
	}
	return t
}

// Author returns the author for id, or a zero Author when the API did not side-load it.
func (t Tables) Author(id string) (Author, bool) {
	a, ok := t.Authors[id]
	return a, ok
}

// PostText returns the text of a referenced post, "" when unknown.
func (t Tables) PostText(id string) string {
	return t.Posts[id]
}
