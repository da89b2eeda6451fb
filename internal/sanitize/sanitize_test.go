package sanitize

import (
	"reflect"
	"testing"

	"github.com/halcyonlabs/studio-api/internal/model"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"exact draft", "draft", model.StatusDraft},
		{"published", "published", model.StatusPublished},
		{"capitalized draft", "Draft", model.StatusPublished},
		{"arbitrary string", "archived", model.StatusPublished},
		{"empty string", "", model.StatusPublished},
		{"nil", nil, model.StatusPublished},
		{"number", 123, model.StatusPublished},
		{"boolean", true, model.StatusPublished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.input); got != tt.expected {
				t.Errorf("Status(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	body := map[string]any{
		"title":  "  Hello  ",
		"number": 42,
		"nested": map[string]any{"x": "y"},
	}

	if got := String(body, "title"); got != "Hello" {
		t.Errorf("String(title) = %q, want %q", got, "Hello")
	}
	if got := String(body, "number"); got != "" {
		t.Errorf("String(number) = %q, want empty", got)
	}
	if got := String(body, "missing"); got != "" {
		t.Errorf("String(missing) = %q, want empty", got)
	}
	if got := String(body, "nested"); got != "" {
		t.Errorf("String(nested) = %q, want empty", got)
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected []string
	}{
		{
			name:     "mixed entries keep relative order",
			input:    []any{" first ", "", "   ", 7, nil, "second", true, " third"},
			expected: []string{"first", "second", "third"},
		},
		{
			name:     "not an array",
			input:    "just a string",
			expected: []string{},
		},
		{
			name:     "empty array",
			input:    []any{},
			expected: []string{},
		},
		{
			name:     "all invalid",
			input:    []any{"", "  ", 1, nil},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringList(map[string]any{"list": tt.input}, "list")
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("StringList = %v, want %v", got, tt.expected)
			}
		})
	}

	if got := StringList(map[string]any{}, "missing"); len(got) != 0 {
		t.Errorf("StringList(missing) = %v, want empty", got)
	}
}

func TestBlogSlug(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		expected string
	}{
		{
			name:     "derived from title",
			body:     map[string]any{"title": "Hello World!"},
			expected: "hello-world",
		},
		{
			name:     "explicit slug lowercased verbatim",
			body:     map[string]any{"title": "Hello", "slug": "  My-Custom-Slug "},
			expected: "my-custom-slug",
		},
		{
			name:     "whitespace-only slug falls back to title",
			body:     map[string]any{"title": "Launch", "slug": "   "},
			expected: "launch",
		},
		{
			name:     "no title no slug",
			body:     map[string]any{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blog(tt.body).Slug; got != tt.expected {
				t.Errorf("Blog().Slug = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBlogDefaults(t *testing.T) {
	b := Blog(map[string]any{
		"title":   " Post ",
		"content": []any{"one", "", " two "},
		"status":  "draft",
	})

	if b.Title != "Post" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.Status != model.StatusDraft {
		t.Errorf("Status = %q", b.Status)
	}
	if b.ReadTime != "" || b.HeroImage != "" {
		t.Errorf("expected empty defaults, got readTime=%q heroImage=%q", b.ReadTime, b.HeroImage)
	}
	if !reflect.DeepEqual(b.Content, []string{"one", "two"}) {
		t.Errorf("Content = %v", b.Content)
	}
}

func TestWorkPostLists(t *testing.T) {
	wp := WorkPost(map[string]any{
		"title":      "Case Study",
		"image":      "https://cdn.example.com/a.png",
		"categories": []any{"  Design ", "", "Web"},
		"tags":       "not-an-array",
	})

	if !reflect.DeepEqual(wp.Categories, []string{"Design", "Web"}) {
		t.Errorf("Categories = %v", wp.Categories)
	}
	if len(wp.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", wp.Tags)
	}
	if wp.Status != model.StatusPublished {
		t.Errorf("Status = %q", wp.Status)
	}
}

func TestTextStripsHTML(t *testing.T) {
	body := map[string]any{
		"message": `Hello <script>alert("x")</script><b>there</b> & goodbye`,
	}

	got := Text(body, "message")
	want := "Hello there & goodbye"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}
