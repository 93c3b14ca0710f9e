package converter

import "fmt"

// normalizeHeaders returns width unique column names. Missing or empty
// names become "Unnamed: i" and repeats of a name get ".1", ".2", ...
// suffixes, matching how pandas labels such columns.
func normalizeHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	used := make(map[string]bool, width)
	repeats := make(map[string]int, width)

	for i := range headers {
		name := ""
		if i < len(raw) {
			name = raw[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if used[name] {
			base := name
			n := repeats[base]
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if !used[name] {
					break
				}
			}
			repeats[base] = n
		}

		used[name] = true
		headers[i] = name
	}

	return headers
}

// padRow extends row with empty cells up to width.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
