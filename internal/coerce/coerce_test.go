package coerce

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		def  int
		want int
	}{
		{"plain", "42", 7, 42},
		{"leading space", "  \t42", 7, 42},
		{"negative", "-13", 7, -13},
		{"plus sign", "+5", 7, 5},
		{"trailing garbage", "12abc", 7, 12},
		{"array prefix", "1112358,1234,1248", 7, 1112358},
		{"sign only", "-", 7, 0},
		{"true", "true", 7, 1},
		{"yes mixed case", "Yes", 7, 1},
		{"ok", "OK", 7, 1},
		{"on", "on", 7, 1},
		{"false", "FALSE", 7, 0},
		{"off", "off", 7, 0},
		{"not", "not", 7, 0},
		{"no with suffix digits", "no1", 7, 0},
		{"unknown word", "positional2", 7, 7},
		{"empty", "", 7, 7},
		{"spaces only", "   ", 7, 7},
		{"punctuation", "#1", 7, 7},
		{"overflow", "99999999999999999999999", 7, math.MaxInt},
		{"underflow", "-99999999999999999999999", 7, math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Int(tt.raw, tt.def); got != tt.want {
				t.Errorf("Int(%q, %d): got %d, want %d", tt.raw, tt.def, got, tt.want)
			}
		})
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"0", true, false},
		{"2", false, false},
		{"yes", false, true},
		{"off", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		if got := Bool(tt.raw, tt.def); got != tt.want {
			t.Errorf("Bool(%q, %v): got %v, want %v", tt.raw, tt.def, got, tt.want)
		}
	}
}

func TestDouble(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		def  float64
		want float64
	}{
		{"plain", "2.71", 1, 2.71},
		{"integer", "3", 1, 3},
		{"exponent", "1.5e3", 1, 1500},
		{"dangling exponent", "4e", 1, 4},
		{"leading dot", ".5", 1, 0.5},
		{"trailing garbage", "12.71,3.1415", 1, 12.71},
		{"zero", "0", 1, 0},
		{"zero decimal", "0.0", 1, 0},
		{"signed zero", "-0", 1, 0},
		{"not a number", "abc", 1.25, 1.25},
		{"dot only", ".", 1.25, 1.25},
		{"empty", "", 1.25, 1.25},
		{"sign only", "+", 1.25, 1.25},
		{"infinity", "inf", 1, math.Inf(1)},
		{"negative infinity", "-Infinity", 1, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Double(tt.raw, tt.def); got != tt.want {
				t.Errorf("Double(%q, %v): got %v, want %v", tt.raw, tt.def, got, tt.want)
			}
		})
	}

	if got := Double("nan", 1); !math.IsNaN(got) {
		t.Errorf("Double(nan): got %v, want NaN", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"1112358,1234,1248", []string{"1112358", "1234", "1248"}},
		{"12.71,3.1415 1.137", []string{"12.71", "3.1415", "1.137"}},
		{"a: b,,c  d", []string{"a", "b", "c", "d"}},
		{"", []string{}},
		{" , : ", []string{}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.raw)
		if got == nil {
			got = []string{}
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.raw, diff)
		}
	}
}

func TestArrays(t *testing.T) {
	ints := "1112358,1234,1248"
	if got := ArraySize(ints); got != 3 {
		t.Fatalf("ArraySize: got %d, want 3", got)
	}
	for i, want := range []int{1112358, 1234, 1248} {
		if got := IntElement(ints, i+1); got != want {
			t.Errorf("IntElement(%d): got %d, want %d", i+1, got, want)
		}
	}
	if got := IntElement(ints, 0); got != 0 {
		t.Errorf("IntElement(0): got %d, want 0", got)
	}
	if got := IntElement(ints, 4); got != 0 {
		t.Errorf("IntElement(4): got %d, want 0", got)
	}

	doubles := "12.71,3.1415 1.137"
	if got := ArraySize(doubles); got != 3 {
		t.Fatalf("ArraySize: got %d, want 3", got)
	}
	for i, want := range []float64{12.71, 3.1415, 1.137} {
		if got := DoubleElement(doubles, i+1); got != want {
			t.Errorf("DoubleElement(%d): got %v, want %v", i+1, got, want)
		}
	}

	if got := ArraySize(""); got != 0 {
		t.Errorf("ArraySize(empty): got %d, want 0", got)
	}
	if got := DoubleElement("", 1); got != 0 {
		t.Errorf("DoubleElement(empty, 1): got %v, want 0", got)
	}
}

func TestAtoi(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"  -7xyz", -7},
		{"+3", 3},
		{"abc", 0},
		{"", 0},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", math.MinInt},
	}
	for _, tt := range tests {
		if got := Atoi(tt.in); got != tt.want {
			t.Errorf("Atoi(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
