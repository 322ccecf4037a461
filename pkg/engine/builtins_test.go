package engine

import (
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "kebab-case identifier",
			input:  `(def half-width 0.5)`,
			expect: `(def half_width 0.5)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 1 t)`,
			expect: `(- 1 t)`,
		},
		{
			name:   "negative literal preserved",
			input:  `[-0.5 t]`,
			expect: `[-0.5 t]`,
		},
		{
			name:   "hyphen in string preserved",
			input:  `"half-width"`,
			expect: `"half-width"`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; y = x^2`,
			expect: `// y = x^2`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Math builtins
// ---------------------------------------------------------------------------

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		source string
		t      float64
		wantX  float64
		wantY  float64
	}{
		{
			name:   "unit circle",
			source: `(defn curve [t] [(cos (* pi t)) (sin (* pi t))])`,
			t:      0.5,
			wantX:  0,
			wantY:  1,
		},
		{
			name:   "sqrt and pow",
			source: `(defn curve [t] [(sqrt 0.25) (pow t 2)])`,
			t:      -0.5,
			wantX:  0.5,
			wantY:  0.25,
		},
		{
			name:   "atan2 and abs",
			source: `(defn curve [t] [(atan2 1 1) (abs t)])`,
			t:      -0.75,
			wantX:  math.Pi / 4,
			wantY:  0.75,
		},
		{
			name:   "clamp",
			source: `(defn curve [t] [(clamp t -0.2 0.2) (fmax t 0)])`,
			t:      0.9,
			wantX:  0.2,
			wantY:  0.9,
		},
		{
			name:   "kebab-case definitions",
			source: "(def half-scale 0.5)\n(defn curve [t] [(* half-scale t) 0])",
			t:      1,
			wantX:  0.5,
			wantY:  0,
		},
	}

	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCompile(t, eng, tt.source)
			p, err := c.At(tt.t)
			if err != nil {
				t.Fatalf("At(%g): %v", tt.t, err)
			}
			if math.Abs(p.X-tt.wantX) > 1e-9 || math.Abs(p.Y-tt.wantY) > 1e-9 {
				t.Errorf("At(%g) = %v, want (%g, %g)", tt.t, p, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFloatLiteral(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{-1, "-1.0"},
		{0, "0.0"},
		{0.25, "0.25"},
		{1, "1.0"},
	}
	for _, tt := range tests {
		if got := floatLiteral(tt.in); got != tt.want {
			t.Errorf("floatLiteral(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
