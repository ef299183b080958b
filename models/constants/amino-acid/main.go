package aminoacid

// CanonicalOrder is the fixed 20-letter single-letter amino acid
// alphabet, in the exact order the heatmap renderer consumes.
// All builders must iterate this order, never a map's.
var CanonicalOrder = []string{
	"A", "C", "D", "E", "F", "G", "H", "I", "K", "L",
	"M", "N", "P", "Q", "R", "S", "T", "V", "W", "Y",
}

const Count = 20

var indexByLetter = func() map[string]int {
	m := make(map[string]int, Count)
	for i, aa := range CanonicalOrder {
		m[aa] = i
	}
	return m
}()

func IsCanonical(aa string) bool {
	_, ok := indexByLetter[aa]
	return ok
}

// IndexOf returns the letter's slot on the heatmap's amino acid
// axis, or -1 for non-canonical symbols (stop codons, ambiguity
// codes) which are excluded from the matrix.
func IndexOf(aa string) int {
	if i, ok := indexByLetter[aa]; ok {
		return i
	}
	return -1
}
