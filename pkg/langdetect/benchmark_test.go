package langdetect_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/gomdmark/pkg/langdetect"
	"github.com/yaklabco/gomdmark/pkg/protect"
)

// benchDocument holds unlabelled fences of the kind `gomdmark protected`
// has to label.
const benchDocument = "# Notes\n\n" +
	"```\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```\n\n" +
	"Some ==highlighted== prose.\n\n" +
	"```\ndef hello():\n    print(\"hi\")\n\nif __name__ == \"__main__\":\n    hello()\n```\n\n" +
	"~~~\nname: test\nversion: 1.0.0\ndeps:\n  - one\n~~~\n"

func BenchmarkDetect(b *testing.B) {
	benchmarks := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "word", content: "hello"},
		{name: "json", content: `{"name": "test", "version": "1.0.0", "deps": {"one": "^1.0.0"}}`},
		{name: "long prose", content: strings.Repeat("Plain words in a fence without code. ", 200)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			content := []byte(bm.content)
			b.ReportAllocs()
			for range b.N {
				langdetect.Detect(content)
			}
		})
	}
}

func BenchmarkLabelFences(b *testing.B) {
	ranges := protect.Find(benchDocument)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		for _, r := range ranges {
			r.Language(benchDocument)
		}
	}
}
