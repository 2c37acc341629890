package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
)

func TestSanitize_KeepsEditorMarkup(t *testing.T) {
	inputs := []string{
		"",
		"Now hiring backend engineers",
		"<p><strong>Remote</strong> or <em>hybrid</em></p>",
		"<h2>Requirements</h2><ul><li>Go</li><li>SQL</li></ul>",
		"<ol><li>Apply</li><li>Interview</li></ol>",
		"<blockquote>Best bootcamp we ran</blockquote>",
		"<p>H<sub>2</sub>O and x<sup>2</sup>, <u>u</u> <s>s</s> <mark>m</mark></p>",
		"<pre><code>go test ./...</code></pre>",
	}
	for _, in := range inputs {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestSanitize_Allowlist(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		keep    []string
		dropped []string
	}{
		{
			name:    "script",
			in:      "<p>Apply today</p><script>alert('x')</script>",
			keep:    []string{"<p>Apply today</p>"},
			dropped: []string{"<script", "alert"},
		},
		{
			name:    "event handlers",
			in:      `<img src="https://cdn.example.com/a.png" onerror="alert(1)"><button onclick="x()">Go</button>`,
			keep:    []string{`src="https://cdn.example.com/a.png"`},
			dropped: []string{"onerror", "onclick"},
		},
		{
			name:    "javascript href",
			in:      `<a href="javascript:alert(1)">Apply</a>`,
			dropped: []string{"javascript:"},
		},
		{
			name: "safe link",
			in:   `<a href="https://careerhub.example.com/jobs">Jobs</a>`,
			keep: []string{`href="https://careerhub.example.com/jobs"`, "Jobs"},
		},
		{
			name:    "data url image",
			in:      `<img src="data:image/png;base64,AAAA">`,
			dropped: []string{"data:"},
		},
		{
			name:    "iframe and style",
			in:      `<iframe src="https://evil.example"></iframe><style>p{}</style><p>ok</p>`,
			keep:    []string{"<p>ok</p>"},
			dropped: []string{"<iframe", "<style"},
		},
		{
			name:    "form elements",
			in:      `<form action="/x"><input name="q"><button>Send</button></form>`,
			dropped: []string{"<form", "<input"},
		},
		{
			name: "breaks and rules",
			in:   "<p>line one<br>line two</p><hr><p>after</p>",
			keep: []string{"<br", "<hr", "after"},
		},
		{
			name: "table with spans",
			in:   `<table class="salary"><tr><th colspan="2">Band</th></tr><tr><td rowspan="1">L1</td></tr></table>`,
			keep: []string{`class="salary"`, `colspan="2"`, `rowspan="1"`, "<td"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.in)
			for _, s := range tt.keep {
				if !strings.Contains(got, s) {
					t.Errorf("expected %q in %q", s, got)
				}
			}
			for _, s := range tt.dropped {
				if strings.Contains(got, s) {
					t.Errorf("expected %q removed from %q", s, got)
				}
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello", "Hello"},
		{"markup removed", "<p>Hello <strong>there</strong></p>", "Hello there"},
		{"entities decoded", "<p>A &amp; B</p>", "A & B"},
		{"whitespace collapsed", "<p>one</p>\n\n<p>two</p>", "one two"},
		{"script dropped", "<p>Hi</p><script>alert(1)</script>", "Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	if got := htmlsanitize.Excerpt("<p>short</p>", 200); got != "short" {
		t.Errorf("short text: got %q", got)
	}
	long := "<p>" + strings.Repeat("a", 250) + "</p>"
	got := htmlsanitize.Excerpt(long, 200)
	if got != strings.Repeat("a", 200)+"..." {
		t.Errorf("long text: got %d chars", len(got))
	}
	if got := htmlsanitize.Excerpt("héllo wörld", 5); got != "héllo..." {
		t.Errorf("rune-aware cut: got %q", got)
	}
}
