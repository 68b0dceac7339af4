package d3d11_test

import (
	"encoding/binary"
	"io/ioutil"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/core/d3d11"
)

func readBytecode(c *qt.C, name string) []byte {
	data, err := ioutil.ReadFile("testdata/" + name)
	c.Assert(err, qt.IsNil)
	return data
}

func TestInputSignature(t *testing.T) {
	c := qt.New(t)
	inputs, err := d3d11.InputSignature(readBytecode(c, "cube_vs.dxbc"))
	c.Assert(err, qt.IsNil)
	c.Assert(inputs, qt.DeepEquals, []core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32B32Float,
	}})

	c.Assert(core.ValidateInputLayout(core.VertexLayout(), inputs), qt.IsNil)
}

func TestInputSignatureRejectsNarrowPosition(t *testing.T) {
	c := qt.New(t)
	inputs, err := d3d11.InputSignature(readBytecode(c, "cube_vs.dxbc"))
	c.Assert(err, qt.IsNil)

	err = core.ValidateInputLayout([]core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32Float,
	}}, inputs)
	c.Assert(err, qt.ErrorMatches, `element 0 \(POSITION\) has format r32g32_float, shader expects r32g32b32_float: .*`)
}

func TestInputSignatureSkipsSystemValues(t *testing.T) {
	c := qt.New(t)
	inputs, err := d3d11.InputSignature(readBytecode(c, "indexed_vs.dxbc"))
	c.Assert(err, qt.IsNil)
	c.Assert(inputs, qt.DeepEquals, []core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32B32Float,
	}, {
		Semantic:      "TEXCOORD",
		SemanticIndex: 1,
		Format:        core.FormatR32G32Float,
	}})
}

func TestInputSignatureMalformed(t *testing.T) {
	c := qt.New(t)
	cube := readBytecode(c, "cube_vs.dxbc")

	badMagic := append([]byte(nil), cube...)
	copy(badMagic, "DXBX")

	noSignature := append([]byte(nil), cube...)
	copy(noSignature[44:], "RDEF")

	badChunk := append([]byte(nil), cube...)
	binary.LittleEndian.PutUint32(badChunk[32:], uint32(len(cube)))

	tooMany := append([]byte(nil), cube...)
	binary.LittleEndian.PutUint32(tooMany[52:], 50)

	badMask := append([]byte(nil), cube...)
	badMask[80] = 0x5

	tests := []struct {
		about    string
		bytecode []byte
		err      string
	}{{
		about:    "empty",
		bytecode: nil,
		err:      `d3d11.InputSignature\(\): not DXBC bytecode`,
	}, {
		about:    "wrong magic",
		bytecode: badMagic,
		err:      `d3d11.InputSignature\(\): not DXBC bytecode`,
	}, {
		about:    "truncated chunk table",
		bytecode: cube[:36],
		err:      `d3d11.InputSignature\(\): truncated chunk table`,
	}, {
		about:    "truncated chunk",
		bytecode: cube[:60],
		err:      `d3d11.InputSignature\(\): chunk ISGN truncated`,
	}, {
		about:    "chunk offset out of range",
		bytecode: badChunk,
		err:      `d3d11.InputSignature\(\): chunk 0 out of range`,
	}, {
		about:    "no input signature",
		bytecode: noSignature,
		err:      `d3d11.InputSignature\(\): no input signature`,
	}, {
		about:    "element count past the chunk",
		bytecode: tooMany,
		err:      `d3d11.InputSignature\(\): 50 elements don't fit the signature`,
	}, {
		about:    "sparse component mask",
		bytecode: badMask,
		err:      `d3d11.InputSignature\(\): POSITION0: unsupported component mask 0x5`,
	}}

	for _, tt := range tests {
		t.Run(tt.about, func(t *testing.T) {
			c := qt.New(t)
			inputs, err := d3d11.InputSignature(tt.bytecode)
			c.Assert(err, qt.ErrorMatches, tt.err)
			c.Assert(inputs, qt.IsNil)
		})
	}
}
