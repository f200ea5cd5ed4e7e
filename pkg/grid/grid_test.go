package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 16 cells per row, the tape viewer default
		{0, 16, 0, 0},
		{1, 16, 1, 0},
		{15, 16, 15, 0},
		{16, 16, 0, 1},
		{17, 16, 1, 1},
		{255, 16, 15, 15},

		// 32 cells per row
		{0, 32, 0, 0},
		{31, 32, 31, 0},
		{32, 32, 0, 1},
		{1023, 32, 31, 31},

		{65535, 256, 255, 255},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestRows(t *testing.T) {
	tests := []struct{ n, cols, want int }{
		{0, 16, 1},
		{1, 16, 1},
		{16, 16, 1},
		{17, 16, 2},
		{65536, 256, 256},
	}
	for _, tc := range tests {
		if got := Rows(tc.n, tc.cols); got != tc.want {
			t.Errorf("Rows(%d, %d) = %d; want %d", tc.n, tc.cols, got, tc.want)
		}
	}
}
