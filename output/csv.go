package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV 写出 x,u 两列
func WriteCSV(w io.Writer, x, u []float64) error {
	if len(x) != len(u) {
		return fmt.Errorf("output: %d coordinates for %d values", len(x), len(u))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "u"}); err != nil {
		return err
	}
	for i := range x {
		rec := []string{
			strconv.FormatFloat(x[i], 'g', -1, 64),
			strconv.FormatFloat(u[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
