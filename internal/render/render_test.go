package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/portfolio/internal/domain"
)

// writePNG creates a w x h PNG at dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown("# Title\n\nline one\nline two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "line one<br")
	assert.Contains(t, out, "<table>")
}

func TestImageSize(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 7, 3)

	w, h, err := ImageSize(path)
	require.NoError(t, err)
	assert.Equal(t, 7, w)
	assert.Equal(t, 3, h)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0o644))
	_, _, err = ImageSize(filepath.Join(dir, "bad.png"))
	assert.Error(t, err)
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()
	testCases := []struct {
		rel string
		ok  bool
	}{
		{"a.png", true},
		{"sub/a.png", true},
		{"sub/../a.png", true},
		{"../a.png", false},
		{"sub/../../a.png", false},
		{"/etc/passwd", false},
		{"..", false},
		{"", false},
		{`..\a.png`, false},
	}
	for _, tc := range testCases {
		_, ok := SafeJoin(root, tc.rel)
		assert.Equal(t, tc.ok, ok, tc.rel)
	}
}

func TestLightbox(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "papers/fig.png", 40, 20)
	writePNG(t, dir, "papers/my pic.png", 30, 10)
	resolve := PrefixResolver("/static/", dir)

	testCases := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:  "local image wrapped",
			input: `<p>see <img src="/static/papers/fig.png" alt="fig"></p>`,
			contains: []string{
				`<div class="pswp-gallery">`,
				`<a href="/static/papers/fig.png" data-pswp-width="40" data-pswp-height="20"><img src="/static/papers/fig.png" alt="fig"/></a>`,
			},
		},
		{
			name:     "percent-encoded name resolved",
			input:    `<p><img src="/static/papers/my%20pic.png?v=2"></p>`,
			contains: []string{`data-pswp-width="30" data-pswp-height="10"`},
		},
		{
			name:        "encoded traversal is not resolved",
			input:       `<img src="/static/..%2Fsecret.png">`,
			notContains: []string{"pswp"},
		},
		{
			name:        "protocol-relative image untouched",
			input:       `<img src="//static/papers/fig.png">`,
			notContains: []string{"pswp"},
		},
		{
			name:        "remote image untouched",
			input:       `<p><img src="https://example.org/x.png"></p>`,
			contains:    []string{`<img src="https://example.org/x.png"/>`},
			notContains: []string{"pswp"},
		},
		{
			name:        "missing image untouched",
			input:       `<p><img src="/static/papers/missing.png"></p>`,
			notContains: []string{"pswp"},
		},
		{
			name:        "image already linked untouched",
			input:       `<a href="/x"><img src="/static/papers/fig.png"></a>`,
			notContains: []string{"pswp"},
		},
		{
			name:        "traversal is not resolved",
			input:       `<img src="/static/../secret.png">`,
			notContains: []string{"pswp"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Lightbox([]byte(tc.input), resolve)
			require.NoError(t, err)
			for _, c := range tc.contains {
				assert.Contains(t, string(out), c)
			}
			for _, c := range tc.notContains {
				assert.NotContains(t, string(out), c)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "job/shot.png", 10, 5)

	t.Run("text only is escaped without gallery", func(t *testing.T) {
		out := Description([]domain.DescriptionItem{{Text: "a < b"}}, root, "/static/timeline/res/")
		assert.Equal(t, "a &lt; b", string(out))
	})

	t.Run("existing image becomes anchor inside gallery", func(t *testing.T) {
		out := Description([]domain.DescriptionItem{
			{Text: "Built "},
			{Text: "this", Path: "job/shot.png"},
		}, root, "/static/timeline/res/")
		assert.Equal(t,
			`<div class="pswp-gallery">Built <a href="/static/timeline/res/job/shot.png" data-pswp-width="10" data-pswp-height="5">this</a></div>`,
			string(out))
	})

	t.Run("missing image falls back to text", func(t *testing.T) {
		out := Description([]domain.DescriptionItem{{Text: "gone", Path: "job/none.png"}}, root, "/r/")
		assert.Equal(t, "gone", string(out))
	})

	t.Run("escaping path falls back to text", func(t *testing.T) {
		out := Description([]domain.DescriptionItem{{Text: "x", Path: "../../etc/passwd"}}, root, "/r/")
		assert.Equal(t, "x", string(out))
	})
}
