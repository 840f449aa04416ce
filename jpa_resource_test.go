// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"bytes"
	"testing"

	"github.com/galaxytools/jpac/internal/logx"
)

func TestResourceOptionalShapesRoundTrip(t *testing.T) {
	r := sampleResource()
	r.ChildShape = &ChildShape{ShapeType: ShapePoint, TextureIndex: 0, Rate: 3, Life: 30, BaseSize: 0.5}
	r.ExTexShape = &ExTexShape{TextureIndex: 0, Flags: 1}

	encoded, err := encodeResource(r)
	if err != nil {
		t.Fatalf("encodeResource: %v", err)
	}
	got, err := decodeResource(NewByteStream(encoded), false, logx.Discard())
	if err != nil {
		t.Fatalf("decodeResource: %v", err)
	}
	if got.ChildShape == nil || got.ChildShape.Rate != 3 {
		t.Fatalf("ChildShape = %+v", got.ChildShape)
	}
	if got.ExTexShape == nil || got.ExTexShape.Flags != 1 {
		t.Fatalf("ExTexShape = %+v", got.ExTexShape)
	}
}

func TestResourceOpaqueBlockPassthrough(t *testing.T) {
	r := sampleResource()
	r.RawBlocks = []OpaqueBlock{{Tag: TagTextureDescriptor, Body: []byte{1, 2, 3, 4}}}

	encoded, err := encodeResource(r)
	if err != nil {
		t.Fatalf("encodeResource: %v", err)
	}
	got, err := decodeResource(NewByteStream(encoded), false, logx.Discard())
	if err != nil {
		t.Fatalf("decodeResource: %v", err)
	}
	if len(got.RawBlocks) != 1 || got.RawBlocks[0].Tag != TagTextureDescriptor {
		t.Fatalf("RawBlocks = %+v", got.RawBlocks)
	}
	if !bytes.Equal(got.RawBlocks[0].Body, []byte{1, 2, 3, 4}) {
		t.Fatalf("opaque body = %x", got.RawBlocks[0].Body)
	}
}

func TestResourceOpaqueBlockCannotBeConstructedFresh(t *testing.T) {
	r := sampleResource()
	r.RawBlocks = []OpaqueBlock{{Tag: "ZZZZ", Body: []byte{1}}}
	if _, err := encodeResource(r); err == nil {
		t.Fatal("expected UnknownTag error constructing a block with an unrecognized tag")
	}
}

func TestResourceUnknownBlockTagSkipped(t *testing.T) {
	w := NewByteStreamWriter()
	if err := w.WriteFixedASCII("QQQQ", 4); err != nil {
		t.Fatalf("WriteFixedASCII: %v", err)
	}
	lengthPos := w.Pos()
	w.WriteU32(0)
	w.WriteBytes([]byte{9, 9, 9, 9})
	if err := w.PatchU32At(lengthPos, 12); err != nil {
		t.Fatalf("PatchU32At: %v", err)
	}

	full, err := encodeResource(sampleResource())
	if err != nil {
		t.Fatalf("encodeResource: %v", err)
	}

	combined := append(append([]byte(nil), w.Bytes()...), full...)
	got, err := decodeResource(NewByteStream(combined), false, logx.Discard())
	if err != nil {
		t.Fatalf("decodeResource with leading unknown tag: %v", err)
	}
	if got.Dynamics == nil || got.BaseShape == nil || got.ExtraShape == nil {
		t.Fatalf("resource after skipping unknown tag = %+v", got)
	}
}
