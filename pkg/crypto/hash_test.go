package crypto

import (
	"encoding/hex"
	"testing"
)

func TestKeccak256(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		},
		{
			name:  "hello",
			input: []byte("hello"),
			want:  "1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8",
		},
		{
			name:  "enr",
			input: []byte("enr"),
			want:  "ae9c5b180950ea483a61c4cbad506a61e440d3a7cf162e42c55088d5e7b14043",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hex.EncodeToString(Keccak256(tt.input))
			if got != tt.want {
				t.Errorf("Keccak256(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeccak256_Concatenates(t *testing.T) {
	whole := Keccak256([]byte("hello"))
	parts := Keccak256([]byte("he"), []byte("llo"))
	if hex.EncodeToString(whole) != hex.EncodeToString(parts) {
		t.Error("Keccak256 over parts should equal Keccak256 over the concatenation")
	}

	arr := Keccak256Array([]byte("hello"))
	if hex.EncodeToString(arr[:]) != hex.EncodeToString(whole) {
		t.Error("Keccak256Array should match Keccak256")
	}
}
