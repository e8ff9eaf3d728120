package disasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisasm_Process(t *testing.T) {
	data := []byte{
		0x00, 0xE0, // 0x200 cls
		0x22, 0x06, // 0x202 call $206
		0x12, 0x02, // 0x204 jp $202
		0x00, 0xEE, // 0x206 ret
		0xE0, 0x00, // 0x208 unknown
		0xAB, // 0x20A trailing byte
	}

	lines := New(data, 0x200).Process()
	assert.Len(t, lines, 6)

	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, "cls", lines[0].Code)
	assert.True(t, lines[0].Known)
	assert.Equal(t, "", lines[0].Label)

	assert.Equal(t, "call $206", lines[1].Code)
	assert.Equal(t, "_label_202", lines[1].Label)

	assert.Equal(t, "jp $202", lines[2].Code)
	assert.Equal(t, "_func_206", lines[3].Label)
	assert.Equal(t, "ret", lines[3].Code)

	assert.False(t, lines[4].Known)
	assert.Equal(t, ".word $E000", lines[4].Code)

	assert.Equal(t, uint16(0x20A), lines[5].Address)
	assert.Equal(t, ".byte $AB", lines[5].Code)
}

func TestDisasm_DestinationOutsideImage(t *testing.T) {
	data := []byte{
		0x13, 0x00, // jp $300
		0x21, 0x00, // call $100
	}

	lines := New(data, 0x200).Process()
	assert.Len(t, lines, 2)
	assert.Equal(t, "", lines[0].Label)
	assert.Equal(t, "", lines[1].Label)
}

func TestWrite(t *testing.T) {
	lines := New([]byte{0x12, 0x00}, 0x200).Process()

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, lines))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "_label_200:\n"))
	assert.Contains(t, output, "jp $200")
	assert.Contains(t, output, "; $200: 1200")
}
