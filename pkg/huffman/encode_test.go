package huffman

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
)

func bitsOf(s string) []bool {
	bits := make([]bool, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		}
	}
	return bits
}

func TestEncodeBits(t *testing.T) {
	tree, bits, err := Encode("abbccc")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// a=10 b=11 b=11 c=0 c=0 c=0, 7 bits of padding, checksum 61 LSB first
	expect := bitsOf("10111100 0 0000000 10111100 00000000 00000000 00000000")
	if !reflect.DeepEqual(expect, bits) {
		t.Errorf("wrong stream:\n\texpect: %v\n\tactual: %v", expect, bits)
	}
	if tree.Padding() != 7 {
		t.Errorf("expected padding 7, got %d", tree.Padding())
	}
}

func TestEncodePaddingWhenAligned(t *testing.T) {
	tree, bits, err := Encode("aaaaaaaa")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if tree.Padding() != 8 {
		t.Errorf("expected a full byte of padding, got %d", tree.Padding())
	}
	if len(bits) != 8+8+ChecksumBits {
		t.Errorf("expected %d bits, got %d", 8+8+ChecksumBits, len(bits))
	}
}

func TestEncodeBitsMissingSymbol(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a symbol missing from the code table")
		}
	}()
	EncodeBits("ax", CodeTable{'a': Code{false}})
}

func TestEncodeCompresses(t *testing.T) {
	message := strings.Repeat("e", 400) + strings.Repeat("t", 150) + strings.Repeat("a", 90) +
		strings.Repeat("o", 60) + "the rest of the alphabet: bcdfghijklmnpqrsuvwxyz"

	_, bits, err := Encode(message)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(bits) >= 8*len(message) {
		t.Errorf("expected fewer than %d bits, got %d", 8*len(message), len(bits))
	}
}

func TestEncodeDecode(t *testing.T) {
	testData := [...]string{
		"abbccc",
		"aaaa",
		"aaaaaaaa",
		"ab",
		"Hello, World!",
		"naïve café ☕ — ünïcödé",
		strings.Repeat("the quick brown fox jumps over the lazy dog\n", 40),
	}
	for _, message := range testData {
		t.Run(message[:min(len(message), 12)], func(t *testing.T) {
			tree, bits, err := Encode(message)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if len(bits)%8 != 0 {
				t.Errorf("stream of %d bits is not byte aligned", len(bits))
			}

			result, err := tree.Decode(bits)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !result.Valid {
				t.Fatalf("expected a valid result, got %v", result)
			}
			if result.Loss != 0 {
				t.Errorf("expected no loss, got %v", result.Loss)
			}
			if result.Message != message {
				t.Errorf("wrong message:\n\texpect: %q\n\tactual: %q", message, result.Message)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	tree, bits, err := Encode("abbccc")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	result, err := tree.Decode(bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	expect := "Validated message:\n\nabbccc\nData Loss: 0.0000%\n"
	if actual := result.String(); actual != expect {
		t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", expect, actual)
	}

	expect = "Error: Invalid data detected. Data Loss: 50.0000%\n"
	if actual := (Result{Loss: 0.5}).String(); actual != expect {
		t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", expect, actual)
	}
}

func TestValidateShort(t *testing.T) {
	for _, n := range []int{0, 1, 8, 32, MinStreamBits - 1} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = i%3 == 0
		}
		valid, loss := Validate(bits)
		if valid || loss != 0 {
			t.Errorf("%d bits: expected (false, 0), got (%v, %v)", n, valid, loss)
		}
	}
}

func TestValidateAllZero(t *testing.T) {
	valid, loss := Validate(make([]bool, 64))
	if !valid || loss != 0 {
		t.Errorf("expected (true, 0), got (%v, %v)", valid, loss)
	}
}

func TestValidateFlippedBits(t *testing.T) {
	message := strings.Repeat("pulse width encoding over a noisy line ", 20)
	tree, bits, err := Encode(message)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var checksum Checksum
	payload := bits[:len(bits)-ChecksumBits]
	for _, bit := range payload {
		checksum.Update(bit)
	}
	check := checksum.Get()

	// Clear random set bits until more than 1% of the weighted sum is gone.
	rng := rand.New(rand.NewSource(42))
	var removed uint32
	for removed*100 <= check {
		i := rng.Intn(len(payload))
		if payload[i] {
			payload[i] = false
			removed += 1 << (i % 8)
		}
	}

	valid, loss := Validate(bits)
	if valid {
		t.Errorf("expected an invalid stream, got loss %v", loss)
	}
	if loss < Tolerance {
		t.Errorf("expected loss of at least %v, got %v", Tolerance, loss)
	}

	result, err := tree.Decode(bits)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Valid || result.Message != "" {
		t.Errorf("expected an invalid result, got %+v", result)
	}
}

func TestDecodeBitsCorrupt(t *testing.T) {
	tree, _, err := Encode("abbccc")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := tree.DecodeBits(bitsOf("1")); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("expected ErrCorruptStream for a partial code, got %v", err)
	}
	if s, err := tree.DecodeBits(bitsOf("0100")); err != nil || s != "cac" {
		t.Errorf("expected \"cac\", got %q, %v", s, err)
	}

	single, _, err := Encode("zz")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := single.DecodeBits(bitsOf("001")); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("expected ErrCorruptStream for a 1 in a single symbol tree, got %v", err)
	}
}
