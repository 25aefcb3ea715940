package sqlcodec

import "strings"

// ColumnName converts a source attribute name to a column name:
// "@UserId" -> "user_id". The leading "@" comes from the dump format, where
// record data lives in XML attributes.
func ColumnName(attr string) string {
	var b strings.Builder
	first := true
	for _, c := range attr {
		if c == '@' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			if !first {
				b.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		first = false
		b.WriteRune(c)
	}
	return b.String()
}

// AttrName is the inverse of ColumnName: "user_id" -> "@UserId". Used when
// reconstructing attribute-shaped records from stored rows.
func AttrName(col string) string {
	var b strings.Builder
	b.WriteByte('@')
	up := true
	for _, c := range col {
		if c == '_' {
			up = true
			continue
		}
		if up && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		up = false
		b.WriteRune(c)
	}
	return b.String()
}
