package tokens

import "testing"

func TestTileTokens(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   int
	}{
		{name: "one tile", width: 512, height: 512, want: 255},
		{name: "small image", width: 100, height: 100, want: 255},
		{name: "one pixel over a tile", width: 513, height: 512, want: 425},
		{name: "shortest side reduced to 768", width: 1024, height: 1024, want: 765},
		{name: "fits inside limits", width: 800, height: 600, want: 765},
		{name: "wide over 2048", width: 4096, height: 2048, want: 1105},
		{name: "tall over 2048", width: 2048, height: 4096, want: 1105},
		{name: "full hd", width: 1920, height: 1080, want: 1105},
		{name: "huge square", width: 10000, height: 10000, want: 765},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TileTokens(tt.width, tt.height, 85, 170, DefaultTileSize)
			if got != tt.want {
				t.Errorf("TileTokens(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

// Images inside 2048x2048 with a short side of at most 768 are tiled
// directly from their own dimensions.
func TestTileTokens_NoResizeInsideLimits(t *testing.T) {
	for _, dims := range [][2]int{{768, 768}, {2048, 700}, {700, 2048}, {300, 1500}} {
		w, h := dims[0], dims[1]
		tiles := ((w + 511) / 512) * ((h + 511) / 512)
		want := 85 + tiles*170
		if got := TileTokens(w, h, 85, 170, DefaultTileSize); got != want {
			t.Errorf("TileTokens(%d, %d) = %d, want %d", w, h, got, want)
		}
	}
}

func TestTileTokens_Monotonic(t *testing.T) {
	ratios := [][2]int{{1, 1}, {4, 3}, {16, 9}, {3, 1}, {1, 3}}

	for _, r := range ratios {
		prev := 0
		for k := 1; k < 3000; k++ {
			w, h := k*r[0], k*r[1]
			got := TileTokens(w, h, 85, 170, DefaultTileSize)
			if got < prev {
				t.Fatalf("ratio %d:%d: TileTokens(%d, %d) = %d, smaller than previous %d", r[0], r[1], w, h, got, prev)
			}
			prev = got
		}
	}
}
