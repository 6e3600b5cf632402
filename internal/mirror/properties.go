package mirror

import (
	"encoding/json"
	"unicode/utf8"
)

// maxTextRun is the Notion limit on characters in one rich text object.
const maxTextRun = 2000

// Property is one typed value in a page's property map. Each variant owns
// its wire encoding.
type Property interface {
	json.Marshaler
	Type() string
}

// Properties maps database column names to values.
type Properties map[string]Property

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Type string      `json:"type"`
	Text textContent `json:"text"`
}

// richTexts splits s into runs Notion accepts. An empty string yields an
// empty, non-nil slice so it encodes as [].
func richTexts(s string) []richText {
	runs := []richText{}
	for s != "" {
		cut := len(s)
		if utf8.RuneCountInString(s) > maxTextRun {
			cut = 0
			for i := 0; i < maxTextRun; i++ {
				_, size := utf8.DecodeRuneInString(s[cut:])
				cut += size
			}
		}
		runs = append(runs, richText{Type: "text", Text: textContent{Content: s[:cut]}})
		s = s[cut:]
	}
	return runs
}

// TitleProperty is the database title column.
type TitleProperty struct {
	Text string
}

func (TitleProperty) Type() string { return "title" }

func (p TitleProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"title": richTexts(p.Text)})
}

// TextProperty is a rich_text column.
type TextProperty struct {
	Text string
}

func (TextProperty) Type() string { return "rich_text" }

func (p TextProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"rich_text": richTexts(p.Text)})
}

type namedOption struct {
	Name string `json:"name"`
}

// SelectProperty is a single-select column; an empty Name clears it.
type SelectProperty struct {
	Name string
}

func (SelectProperty) Type() string { return "select" }

func (p SelectProperty) MarshalJSON() ([]byte, error) {
	if p.Name == "" {
		return json.Marshal(map[string]any{"select": nil})
	}
	return json.Marshal(map[string]any{"select": namedOption{Name: p.Name}})
}

// StatusProperty is a Notion status column.
type StatusProperty struct {
	Name string
}

func (StatusProperty) Type() string { return "status" }

func (p StatusProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"status": namedOption{Name: p.Name}})
}

// DateProperty holds a calendar date in YYYY-MM-DD form.
type DateProperty struct {
	Start string
}

func (DateProperty) Type() string { return "date" }

func (p DateProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"date": map[string]string{"start": p.Start}})
}

type userRef struct {
	Object string `json:"object"`
	ID     string `json:"id"`
}

// PeopleProperty references Notion users by id.
type PeopleProperty struct {
	UserIDs []string
}

func (PeopleProperty) Type() string { return "people" }

func (p PeopleProperty) MarshalJSON() ([]byte, error) {
	refs := make([]userRef, 0, len(p.UserIDs))
	for _, id := range p.UserIDs {
		refs = append(refs, userRef{Object: "user", ID: id})
	}
	return json.Marshal(map[string]any{"people": refs})
}

type externalFile struct {
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	External map[string]string `json:"external"`
}

// FileProperty links one external file.
type FileProperty struct {
	Name string
	URL  string
}

func (FileProperty) Type() string { return "files" }

func (p FileProperty) MarshalJSON() ([]byte, error) {
	files := []externalFile{}
	if p.URL != "" {
		files = append(files, externalFile{
			Type:     "external",
			Name:     p.Name,
			External: map[string]string{"url": p.URL},
		})
	}
	return json.Marshal(map[string]any{"files": files})
}

// EmailProperty is an email column; empty clears it.
type EmailProperty struct {
	Email string
}

func (EmailProperty) Type() string { return "email" }

func (p EmailProperty) MarshalJSON() ([]byte, error) {
	if p.Email == "" {
		return json.Marshal(map[string]any{"email": nil})
	}
	return json.Marshal(map[string]any{"email": p.Email})
}
