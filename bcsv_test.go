// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import (
	"testing"

	"github.com/galaxytools/jpac/internal/logx"
)

func TestBCSVBitPackingRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		mask  uint32
		shift uint8
	}{
		{"short full range", 0x7FFF, 0xFFFF, 0},
		{"negative long", -1, 0xFFFFFFFF, 0},
		{"shifted 3-bit field", -3, 0x0070, 4},
		{"zero", 0, 0xFFFFFFFF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := ColumnDef{Name: "v", Hash: JGadgetHash("v"), Type: ColLong, Mask: tt.mask, Shift: tt.shift, Offset: 0}
			rowData := make([]byte, 8)
			if err := encodeCell(rowData, 0, col, IntCell(tt.value), NewStringPool(true), 0); err != nil {
				t.Fatalf("encodeCell: %v", err)
			}
			raw := readWidth(rowData, 0, 4)
			masked := (raw & col.Mask) >> col.Shift
			got := signExtend(masked, maskBitWidth(col.Mask>>col.Shift))
			if got != tt.value {
				t.Fatalf("round trip = %d, want %d", got, tt.value)
			}
		})
	}
}

func TestBCSVEncodeDecodeRoundTrip(t *testing.T) {
	columns := autoEffectListColumns()
	rows := []Row{
		effectRowToBCSVRow(EffectRow{
			GroupName:  "Kuribo",
			UniqueName: "X",
			EffectName: []string{"Smoke"},
			EndFrame:   -1,
			ScaleValue: 1,
			RateValue:  1,
		}),
	}

	encoded, err := EncodeBCSV(columns, rows)
	if err != nil {
		t.Fatalf("EncodeBCSV: %v", err)
	}

	table, err := DecodeBCSV(encoded, DefaultNameDictionary(), false, logx.Discard())
	if err != nil {
		t.Fatalf("DecodeBCSV: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(table.Rows))
	}
	if table.Rows[0]["GroupName"].Str != "Kuribo" {
		t.Fatalf("GroupName = %q, want Kuribo", table.Rows[0]["GroupName"].Str)
	}
	if table.Rows[0]["EndFrame"].I32 != -1 {
		t.Fatalf("EndFrame = %d, want -1", table.Rows[0]["EndFrame"].I32)
	}
}

func TestBCSVValueOutOfRangeOnWrite(t *testing.T) {
	col := ColumnDef{Name: "v", Hash: JGadgetHash("v"), Type: ColShort, Mask: 0x0007, Shift: 0, Offset: 0}
	rowData := make([]byte, 4)
	if err := encodeCell(rowData, 0, col, IntCell(8), NewStringPool(true), 0); err == nil {
		t.Fatal("expected ValueOutOfRange for a value exceeding a 3-bit mask")
	}
}

func TestStringPoolRetrieval(t *testing.T) {
	pool := NewStringPool(true)
	strs := []string{"GroupName", "foobar", "bar", "UniqueName"}
	offsets := make(map[string]uint32, len(strs))
	for _, s := range strs {
		offsets[s] = pool.Intern(s)
	}

	rp := newReadStringPool(pool.Bytes())
	for _, s := range strs {
		got, err := rp.At(offsets[s])
		if err != nil {
			t.Fatalf("At(%d): %v", offsets[s], err)
		}
		if got != s {
			t.Fatalf("At(%d) = %q, want %q", offsets[s], got, s)
		}
	}
}
