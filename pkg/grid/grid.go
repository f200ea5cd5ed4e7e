// Package grid lays a linear run of cells out in rows.
package grid

// GetGridCoords returns the column and row of cell index in a grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Rows is the number of rows needed to hold n cells, at least one.
func Rows(n, cols int) int {
	if n <= 0 {
		return 1
	}
	return (n + cols - 1) / cols
}
