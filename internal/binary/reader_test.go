// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

package binary

import (
	"bytes"
	"testing"
)

func TestReadBytesAt(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
	reader := bytes.NewReader(data)

	tests := []struct {
		name    string
		want    []byte
		offset  int64
		length  int
		wantErr bool
	}{
		{name: "read from start", offset: 0, length: 3, want: []byte{0x00, 0x01, 0x02}, wantErr: false},
		{name: "read from middle", offset: 2, length: 3, want: []byte{0x02, 0x03, 0x04}, wantErr: false},
		{name: "read to end", offset: 3, length: 3, want: []byte{0x03, 0x04, 0x05}, wantErr: false},
		{name: "read past end", offset: 4, length: 5, want: nil, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReadBytesAt(reader, testCase.offset, testCase.length)
			if (err != nil) != testCase.wantErr {
				t.Errorf("ReadBytesAt() error = %v, wantErr %v", err, testCase.wantErr)
				return
			}
			if !testCase.wantErr && !bytes.Equal(got, testCase.want) {
				t.Errorf("ReadBytesAt() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func TestReadUint32LEAt(t *testing.T) {
	t.Parallel()

	data := []byte{0x78, 0x56, 0x34, 0x12}
	reader := bytes.NewReader(data)

	got, err := ReadUint32LEAt(reader, 0)
	if err != nil {
		t.Errorf("ReadUint32LEAt() error = %v", err)
		return
	}
	want := uint32(0x12345678)
	if got != want {
		t.Errorf("ReadUint32LEAt() = 0x%08X, want 0x%08X", got, want)
	}
}

func TestReadUint32LEAtPastEnd(t *testing.T) {
	t.Parallel()

	reader := bytes.NewReader([]byte{0x01, 0x02})
	if _, err := ReadUint32LEAt(reader, 0); err == nil {
		t.Error("ReadUint32LEAt() expected error reading past end, got nil")
	}
}

func TestCleanString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  string
		input []byte
	}{
		{name: "normal string", input: []byte("Hello"), want: "Hello"},
		{name: "with null terminator", input: []byte("Hello\x00World"), want: "Hello"},
		{name: "padded with nulls", input: []byte("Test\x00\x00\x00"), want: "Test"},
		{name: "with trailing spaces", input: []byte("Test   "), want: "Test"},
		{name: "with leading spaces", input: []byte("   Test"), want: "Test"},
		{name: "with both", input: []byte("  Test  \x00"), want: "Test"},
		{name: "empty", input: []byte{}, want: ""},
		{name: "only nulls", input: []byte{0, 0, 0}, want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := CleanString(testCase.input)
			if got != testCase.want {
				t.Errorf("CleanString() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestBytesEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []byte
		b    []byte
		want bool
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, true},
		{"not equal", []byte{1, 2, 3}, []byte{1, 2, 4}, false},
		{"different lengths", []byte{1, 2}, []byte{1, 2, 3}, false},
		{"empty both", []byte{}, []byte{}, true},
		{"empty one", []byte{}, []byte{1}, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := BytesEqual(testCase.a, testCase.b)
			if got != testCase.want {
				t.Errorf("BytesEqual() = %v, want %v", got, testCase.want)
			}
		})
	}
}
