package param

import (
	"math"
	"strconv"
)

func itoa(n int) string { return strconv.Itoa(n) }

func sqrt(v float64) float64 { return math.Sqrt(v) }
