// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jpac

import "testing"

func TestJGadgetHash(t *testing.T) {
	tests := []struct {
		in  string
		out uint32
	}{
		{"GroupName", 0x9D0C5963},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := JGadgetHash(tt.in)
			if got != tt.out {
				t.Fatalf("JGadgetHash(%q) = 0x%08x, want 0x%08x", tt.in, got, tt.out)
			}
		})
	}
}

func TestJGadgetHashEmpty(t *testing.T) {
	if got := JGadgetHash(""); got != 0 {
		t.Fatalf("JGadgetHash(\"\") = 0x%08x, want 0", got)
	}
}
