package extract

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "drops scripts and styles",
			html: `<html><head><title>Apply</title><style>p{color:red}</style></head>` +
				`<body><script>var fee = 500;</script><p>Pay registration fee</p></body></html>`,
			want: "Pay registration fee",
		},
		{
			name: "separates block elements",
			html: `<body><h1>Scholarship</h1><p>Apply now</p><ul><li>Step one</li><li>Step two</li></ul></body>`,
			want: "Scholarship Apply now Step one Step two",
		},
		{
			name: "collapses whitespace",
			html: "<body><p>  URGENT \n\n\t deadline  </p></body>",
			want: "URGENT deadline",
		},
		{
			name: "line breaks separate words",
			html: "<body>first<br>second</body>",
			want: "first second",
		},
		{
			name: "drops noscript and template",
			html: "<body><noscript>enable js</noscript><template><p>hidden</p></template><p>visible</p></body>",
			want: "visible",
		},
		{
			name: "decodes entities",
			html: "<body><p>100&#37; guarantee &amp; more</p></body>",
			want: "100% guarantee & more",
		},
		{
			name: "empty document",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Text(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	t.Run("normalizes to NFC", func(t *testing.T) {
		t.Parallel()

		decomposed := "e\u0301cole"
		if got := Clean(decomposed); got != "\u00e9cole" {
			t.Errorf("Clean(%q) = %q", decomposed, got)
		}
	})

	t.Run("trims and collapses", func(t *testing.T) {
		t.Parallel()

		if got := Clean("  a \n b  "); got != "a b" {
			t.Errorf("Clean() = %q", got)
		}
	})
}

func TestLooksLikeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want bool
	}{
		{name: "doctype", data: "<!DOCTYPE html><html></html>", want: true},
		{name: "leading whitespace", data: "\n  <html><body></body></html>", want: true},
		{name: "paragraph", data: "<p>hello</p>", want: true},
		{name: "plain text", data: "Pay registration fee of Rs 500", want: false},
		{name: "json", data: `{"url":"x"}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := LooksLikeHTML([]byte(tt.data)); got != tt.want {
				t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestContent(t *testing.T) {
	t.Parallel()

	t.Run("html is extracted", func(t *testing.T) {
		t.Parallel()

		got, err := Content([]byte("<html><body><p>Apply</p><script>x()</script></body></html>"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Apply" {
			t.Errorf("Content() = %q", got)
		}
	})

	t.Run("plain text is cleaned", func(t *testing.T) {
		t.Parallel()

		got, err := Content([]byte("  Apply   now  "))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Apply now" {
			t.Errorf("Content() = %q", got)
		}
	})
}
