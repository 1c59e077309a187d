package scanner

import "nickandperla.net/lisp2swift/internal/token"

// String creates a string literal word. raw includes the quotes.
func String(raw string) Word { return Word{Kind: token.STRING, Text: raw} }

// Number creates a number literal word.
func Number(raw string) Word { return Word{Kind: token.NUMBER, Text: raw} }

// Atom creates an atom word.
func Atom(name string) Word { return Word{Kind: token.ATOM, Text: name} }

// List creates a list form.
func List(children ...Word) Word { return Word{Kind: token.LIST, Children: children} }

// Vector creates a vector form.
func Vector(children ...Word) Word { return Word{Kind: token.VECTOR, Children: children} }

// equal compares two words structurally, ignoring positions.
func (w Word) equal(other Word) bool {
	if w.Kind != other.Kind || w.Text != other.Text || len(w.Children) != len(other.Children) {
		return false
	}
	for i := range w.Children {
		if !w.Children[i].equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// equalWords compares two word sequences structurally.
func equalWords(a, b []Word) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}
