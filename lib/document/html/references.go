package html

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
)

// splitReferences splits raw text around character references such as
// "&amp;" or "&#8217;", which become structure units.
func splitReferences(raw []byte) []document.Unit {
	var units []document.Unit
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '&' {
			continue
		}
		end := referenceEnd(raw, i)
		if end < 0 {
			continue
		}
		if i > start {
			units = append(units, document.Unit{Kind: document.Text, Data: raw[start:i]})
		}
		units = append(units, document.Unit{Kind: document.Structure, Data: raw[i:end]})
		start = end
		i = end - 1
	}
	if start < len(raw) {
		units = append(units, document.Unit{Kind: document.Text, Data: raw[start:]})
	}
	return units
}

// referenceEnd returns the index after the ';' closing the reference at i,
// or -1 if there is none.
func referenceEnd(raw []byte, i int) int {
	j := i + 1
	if j < len(raw) && raw[j] == '#' {
		j++
		if j < len(raw) && (raw[j] == 'x' || raw[j] == 'X') {
			j++
		}
	}
	nameStart := j
	for j < len(raw) && isReferenceByte(raw[j]) {
		j++
	}
	if j == nameStart || j >= len(raw) || raw[j] != ';' {
		return -1
	}
	return j + 1
}

func isReferenceByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
