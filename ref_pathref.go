package defaultinput

import (
	"strconv"
	"strings"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// escapePointer escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapePointer(s string) string { return pointerEscaper.Replace(s) }

func pointerOf(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	b := strings.Builder{}
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(escapePointer(s))
	}
	return b.String()
}

// joinPointer appends segs to a base pointer ("" or "/" both mean the root).
func joinPointer(base string, segs ...string) string {
	if base == "/" {
		base = ""
	}
	if len(segs) == 0 {
		if base == "" {
			return "/"
		}
		return base
	}
	return base + pointerOf(segs)
}

// paramPointer is the pointer of parameter i inside an argument list.
func paramPointer(i int) string { return "/" + strconv.Itoa(i) }

// splitPointer reverses pointerOf.
func splitPointer(p string) []string {
	if p == "" || p == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return parts
}
