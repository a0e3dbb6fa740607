package vault

import "strings"

// Signature identifies a checklist item across export runs. Two items with
// the same signature are the same item; checked state transfers between
// them. Signatures are derived from remote fields only, never from note
// text the user may have edited around the item.
type Signature string

// Checklist item markers. The x is lowercase only; "- [X]" is not a
// checked item.
const (
	uncheckedPrefix = "- [ ] "
	checkedPrefix   = "- [x] "
)

// sectionSpan locates the "## "+heading section inside doc. It returns the
// byte range from the start of the heading line to the start of the next
// "## " line, or to the end of doc when the section is last. The heading
// line may carry trailing spaces or tabs but nothing else.
func sectionSpan(doc, heading string) (start, end int, found bool) {
	want := "## " + heading
	start = -1

	for off := 0; off < len(doc); {
		lineEnd := len(doc)
		if i := strings.IndexByte(doc[off:], '\n'); i >= 0 {
			lineEnd = off + i
		}
		line := doc[off:lineEnd]

		if start < 0 {
			if strings.TrimRight(line, " \t") == want {
				start = off
			}
		} else if strings.HasPrefix(line, "## ") {
			return start, off, true
		}

		if lineEnd == len(doc) {
			break
		}
		off = lineEnd + 1
	}

	if start < 0 {
		return 0, 0, false
	}
	return start, len(doc), true
}

// ExtractSection returns the body of the "## "+heading section in doc,
// with the heading line removed and surrounding whitespace trimmed.
// It returns "" when the section is absent.
func ExtractSection(doc, heading string) string {
	start, end, found := sectionSpan(doc, heading)
	if !found {
		return ""
	}

	body := doc[start:end]
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return strings.TrimSpace(body)
}

// ParseCheckedItems scans a section body for checklist lines and maps each
// item's signature to its checked state. sig converts the raw item text to
// a signature; see EventSignatureFromItem and TaskSignatureFromItem.
// Items match at the start of the line only: indented lines are notes
// continuations, never items, even when they look like one. "### "
// subheadings and blanks are skipped. If a signature occurs twice the
// last occurrence wins.
func ParseCheckedItems(section string, sig func(itemText string) Signature) map[Signature]bool {
	checked := make(map[Signature]bool)

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimRight(line, " \t\r")

		var text string
		var state bool
		switch {
		case strings.HasPrefix(line, uncheckedPrefix):
			text = line[len(uncheckedPrefix):]
		case strings.HasPrefix(line, checkedPrefix):
			text = line[len(checkedPrefix):]
			state = true
		default:
			continue
		}
		if text == "" {
			continue
		}

		checked[sig(text)] = state
	}

	return checked
}

// EventSignatureFromItem recovers an event signature from rendered item
// text. The location suffix (" @ ...") is display-only and stripped.
func EventSignatureFromItem(itemText string) Signature {
	if i := strings.Index(itemText, " @ "); i >= 0 {
		itemText = itemText[:i]
	}
	return Signature(strings.TrimSpace(itemText))
}

// TaskSignatureFromItem treats the full rendered item text as the
// signature; task lines carry no display-only decoration.
func TaskSignatureFromItem(itemText string) Signature {
	return Signature(strings.TrimSpace(itemText))
}
