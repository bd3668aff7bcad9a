package util

import "testing"

func TestHexToUint64(t *testing.T) {
	v, err := HexToUint64("0xaa36a7")
	if err != nil {
		t.Fatal(err)
	}
	if v != 11155111 {
		t.Fatalf("parsed %d", v)
	}
	if _, err := HexToUint64("0x"); err == nil {
		t.Fatal("empty quantity must error")
	}
	if _, err := HexToUint64("0xzz"); err == nil {
		t.Fatal("invalid quantity must error")
	}
	if _, err := HexToUint64("0xffffffffffffffffff"); err == nil {
		t.Fatal("overflowing quantity must error")
	}
}

func TestHexToBigInt(t *testing.T) {
	v, err := HexToBigInt("0x000000000000000000000000000000000000000000000000000000000000002a")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "42" {
		t.Fatalf("parsed %s", v)
	}
}

func TestAcceptsEncoding(t *testing.T) {
	if !AcceptsEncoding("gzip, br;q=1.0", "br") {
		t.Fatal("br must be accepted")
	}
	if !AcceptsEncoding("gzip, br;q=1.0", "gzip") {
		t.Fatal("gzip must be accepted")
	}
	if AcceptsEncoding("gzip, br;q=1.0", "deflate") {
		t.Fatal("deflate must not be accepted")
	}
	if !AcceptsEncoding("*", "br") {
		t.Fatal("the wildcard must accept any coding")
	}
	if AcceptsEncoding("gzip", "") {
		t.Fatal("empty coding must not be accepted")
	}
	if AcceptsEncoding("", "br") {
		t.Fatal("an absent header must not accept br")
	}
}
