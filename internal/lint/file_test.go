package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFile_SplitsLines(t *testing.T) {
	f := NewFile("a.ts", []byte("const a = 1;\nconst b = 2;\n"), nil)

	assert.Equal(t, "a.ts", f.Path)
	assert.Len(t, f.Lines, 3)
	assert.Equal(t, "const b = 2;", string(f.Lines[1]))
	assert.Equal(t, 2, f.LineCount())
}

func TestNewFile_EmptyContent(t *testing.T) {
	f := NewFile("empty.ts", nil, nil)
	assert.Equal(t, 0, f.LineCount())
	assert.Nil(t, f.Tree)
}

func TestLineCount_NoTrailingNewline(t *testing.T) {
	f := NewFile("a.ts", []byte("a\nb"), nil)
	assert.Equal(t, 2, f.LineCount())
}

func TestLine_TrimsCarriageReturn(t *testing.T) {
	f := NewFile("a.ts", []byte("a;\r\nb;\r\n"), nil)
	assert.Equal(t, "a;", string(f.Line(1)))
	assert.Equal(t, "b;", string(f.Line(2)))
	assert.Nil(t, f.Line(0))
	assert.Nil(t, f.Line(4))
}
