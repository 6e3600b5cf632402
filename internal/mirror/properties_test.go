package mirror

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return string(raw)
}

func TestPropertyJSON(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		want string
	}{
		{"title", TitleProperty{Text: "VPN"}, `{"title":[{"type":"text","text":{"content":"VPN"}}]}`},
		{"text", TextProperty{Text: "SR-1"}, `{"rich_text":[{"type":"text","text":{"content":"SR-1"}}]}`},
		{"empty text", TextProperty{}, `{"rich_text":[]}`},
		{"select", SelectProperty{Name: "장애"}, `{"select":{"name":"장애"}}`},
		{"empty select", SelectProperty{}, `{"select":null}`},
		{"status", StatusProperty{Name: "접수 대기"}, `{"status":{"name":"접수 대기"}}`},
		{"date", DateProperty{Start: "2024-05-01"}, `{"date":{"start":"2024-05-01"}}`},
		{"people", PeopleProperty{UserIDs: []string{"u1", "u2"}}, `{"people":[{"object":"user","id":"u1"},{"object":"user","id":"u2"}]}`},
		{"no people", PeopleProperty{}, `{"people":[]}`},
		{"file", FileProperty{Name: "첨부", URL: "https://x.io/a.png"}, `{"files":[{"type":"external","name":"첨부","external":{"url":"https://x.io/a.png"}}]}`},
		{"no file", FileProperty{Name: "첨부"}, `{"files":[]}`},
		{"email", EmailProperty{Email: "a@b.c"}, `{"email":"a@b.c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marshal(t, tt.prop); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestBlockJSON(t *testing.T) {
	got := marshal(t, []Block{HeadingBlock{Text: "상세 설명"}, ParagraphBlock{Text: "body"}})
	want := `[{"heading_2":{"rich_text":[{"type":"text","text":{"content":"상세 설명"}}]},"object":"block","type":"heading_2"},` +
		`{"object":"block","paragraph":{"rich_text":[{"type":"text","text":{"content":"body"}}]},"type":"paragraph"}]`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRichTextsSplitsLongText(t *testing.T) {
	text := strings.Repeat("가", maxTextRun) + strings.Repeat("b", 10)
	runs := richTexts(text)
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if n := utf8.RuneCountInString(runs[0].Text.Content); n != maxTextRun {
		t.Errorf("first run has %d runes, want %d", n, maxTextRun)
	}
	if runs[1].Text.Content != strings.Repeat("b", 10) {
		t.Errorf("second run = %q", runs[1].Text.Content)
	}
	if runs[0].Text.Content+runs[1].Text.Content != text {
		t.Error("split lost characters")
	}
}
