package d3d11

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/devblok/flowerbox/core"
)

// DXBC container layout: magic, checksum, version, total size, chunk count
// and then one offset per chunk
const dxbcHeaderSize = 32

// Register component types of a signature element
const (
	componentUint32  = 1
	componentSint32  = 2
	componentFloat32 = 3
)

var (
	dxbcMagic = []byte("DXBC")
	chunkISGN = []byte("ISGN")
	chunkISG1 = []byte("ISG1")
)

// signatureLayout is where the fields of one signature element sit
type signatureLayout struct {
	stride   int
	name     int
	index    int
	sysValue int
	compType int
	mask     int
}

var (
	isgnLayout = signatureLayout{stride: 24, name: 0, index: 4, sysValue: 8, compType: 12, mask: 20}
	isg1Layout = signatureLayout{stride: 32, name: 4, index: 8, sysValue: 12, compType: 16, mask: 24}
)

// InputSignature reads the input signature of compiled vertex shader bytecode.
// System value inputs are generated by the pipeline and are left out.
func InputSignature(bytecode []byte) ([]core.InputElement, error) {
	data, layout, err := signatureChunk(bytecode)
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, errors.New("d3d11.InputSignature(): truncated signature")
	}
	count := int(binary.LittleEndian.Uint32(data[0:]))
	first := int(binary.LittleEndian.Uint32(data[4:]))
	if count < 0 || first < 8 || first+count*layout.stride > len(data) {
		return nil, errors.Errorf("d3d11.InputSignature(): %d elements don't fit the signature", count)
	}

	var elements []core.InputElement
	for idx := 0; idx < count; idx++ {
		el := data[first+idx*layout.stride:]
		name, err := cString(data, int(binary.LittleEndian.Uint32(el[layout.name:])))
		if err != nil {
			return nil, errors.Wrapf(err, "d3d11.InputSignature(): element %d", idx)
		}
		if binary.LittleEndian.Uint32(el[layout.sysValue:]) != 0 {
			continue
		}
		semanticIndex := binary.LittleEndian.Uint32(el[layout.index:])
		format, err := signatureFormat(binary.LittleEndian.Uint32(el[layout.compType:]), el[layout.mask])
		if err != nil {
			return nil, errors.Wrapf(err, "d3d11.InputSignature(): %s%d", name, semanticIndex)
		}
		elements = append(elements, core.InputElement{
			Semantic:      name,
			SemanticIndex: semanticIndex,
			Format:        format,
		})
	}
	return elements, nil
}

func signatureChunk(bytecode []byte) ([]byte, signatureLayout, error) {
	if len(bytecode) < dxbcHeaderSize || !bytes.Equal(bytecode[:4], dxbcMagic) {
		return nil, signatureLayout{}, errors.New("d3d11.InputSignature(): not DXBC bytecode")
	}
	count := int(binary.LittleEndian.Uint32(bytecode[28:]))
	if count < 0 || dxbcHeaderSize+count*4 > len(bytecode) {
		return nil, signatureLayout{}, errors.New("d3d11.InputSignature(): truncated chunk table")
	}
	for idx := 0; idx < count; idx++ {
		offset := int(binary.LittleEndian.Uint32(bytecode[dxbcHeaderSize+idx*4:]))
		if offset < dxbcHeaderSize || offset+8 > len(bytecode) {
			return nil, signatureLayout{}, errors.Errorf("d3d11.InputSignature(): chunk %d out of range", idx)
		}
		fourcc := bytecode[offset : offset+4]
		size := int(binary.LittleEndian.Uint32(bytecode[offset+4:]))
		if size < 0 || offset+8+size > len(bytecode) {
			return nil, signatureLayout{}, errors.Errorf("d3d11.InputSignature(): chunk %s truncated", fourcc)
		}
		data := bytecode[offset+8 : offset+8+size]
		switch {
		case bytes.Equal(fourcc, chunkISGN):
			return data, isgnLayout, nil
		case bytes.Equal(fourcc, chunkISG1):
			return data, isg1Layout, nil
		}
	}
	return nil, signatureLayout{}, errors.New("d3d11.InputSignature(): no input signature")
}

func cString(data []byte, offset int) (string, error) {
	if offset < 0 || offset >= len(data) {
		return "", errors.Errorf("name offset %d out of range", offset)
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", errors.New("unterminated name")
	}
	return string(data[offset : offset+end]), nil
}

// signatureFormat maps a register component type and mask to the vertex format
// an input layout has to use for it
func signatureFormat(compType uint32, mask byte) (core.Format, error) {
	components := bits.OnesCount8(mask)
	if mask == 0 || components > 4 || mask != byte(1<<uint(components)-1) {
		return core.FormatUnknown, errors.Errorf("unsupported component mask %#x", mask)
	}
	switch {
	case compType == componentFloat32:
		return [...]core.Format{
			core.FormatR32Float,
			core.FormatR32G32Float,
			core.FormatR32G32B32Float,
			core.FormatR32G32B32A32Float,
		}[components-1], nil
	case compType == componentUint32 && components == 1:
		return core.FormatR32Uint, nil
	default:
		return core.FormatUnknown, errors.Errorf("unsupported %d component input of type %d", components, compType)
	}
}
