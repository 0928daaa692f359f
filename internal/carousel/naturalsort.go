package carousel

import "sort"

// naturalLess compares filenames digit-run aware, so slide2.png sorts before
// slide10.png.
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		da, db := isDigit(ca), isDigit(cb)
		switch {
		case da && db:
			// Compare the whole digit runs numerically; leading zeros make
			// the shorter run smaller, ties fall through to the next segment.
			ia, na := digitRun(a, i)
			ib, nb := digitRun(b, j)
			ra, rb := trimZeros(a[i:ia]), trimZeros(b[j:ib])
			if len(ra) != len(rb) {
				return len(ra) < len(rb)
			}
			if ra != rb {
				return ra < rb
			}
			if na != nb {
				return na < nb
			}
			i, j = ia, ib
		case da != db:
			return da
		default:
			if ca != cb {
				return ca < cb
			}
			i++
			j++
		}
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRun(s string, start int) (end, length int) {
	end = start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return end, end - start
}

func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// sortNatural orders names in place with the numeric-aware comparison.
func sortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
}
