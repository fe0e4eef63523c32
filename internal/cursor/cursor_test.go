package cursor

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeDecode_Roundtrip(t *testing.T) {
	for _, page := range []int{1, 2, 9, 10, 4096} {
		encoded := Encode(page)
		got, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", encoded, err)
		}
		if got != page {
			t.Errorf("Decode(Encode(%d)) = %d", page, got)
		}
		if Encode(got) != encoded {
			t.Errorf("Encode(Decode(%q)) = %q", encoded, Encode(got))
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "letters", raw: "abc"},
		{name: "zero", raw: "0"},
		{name: "negative", raw: "-3"},
		{name: "leading zero", raw: "02"},
		{name: "plus sign", raw: "+2"},
		{name: "whitespace", raw: " 2"},
		{name: "overflow", raw: "99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			if !errors.Is(err, ErrInvalidCursor) {
				t.Errorf("expected ErrInvalidCursor, got %v", err)
			}
		})
	}
}

func TestPageFromAfter(t *testing.T) {
	page, err := PageFromAfter(nil)
	if err != nil || page != FirstPage {
		t.Fatalf("PageFromAfter(nil) = %d, %v", page, err)
	}

	after := "3"
	page, err = PageFromAfter(&after)
	if err != nil || page != 3 {
		t.Fatalf("PageFromAfter(3) = %d, %v", page, err)
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		wantErr  bool
	}{
		{name: "first page", page: 1, pageSize: 100},
		{name: "largest page of one", page: math.MaxInt - 1, pageSize: 1},
		{name: "next page overflows", page: math.MaxInt, pageSize: 1, wantErr: true},
		{name: "largest page of two", page: (math.MaxInt - 1) / 2, pageSize: 2},
		{name: "offset overflows", page: (math.MaxInt-1)/2 + 1, pageSize: 2, wantErr: true},
		{name: "offset wraps to small value", page: math.MaxInt/4 + 2, pageSize: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRange(tt.page, tt.pageSize)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCursor) {
					t.Fatalf("CheckRange(%d, %d) = %v, want ErrInvalidCursor", tt.page, tt.pageSize, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckRange(%d, %d) unexpected error: %v", tt.page, tt.pageSize, err)
			}
			next, err := Decode(Encode(tt.page + 1))
			if err != nil || next != tt.page+1 {
				t.Fatalf("next cursor of %d does not round-trip: %d, %v", tt.page, next, err)
			}
		})
	}
}
