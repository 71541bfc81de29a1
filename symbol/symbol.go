package symbol

// Symbol is a compact handle for an interned string. Two Symbols from the
// same Interner are equal exactly when the strings they were interned from
// are equal. The zero Symbol means "no symbol" and never resolves to text.
type Symbol uint32

// None is the zero Symbol, used for absent optional names.
const None Symbol = 0

// Interner deduplicates strings and hands out Symbols for them. Every parse
// session owns its private Interner; Symbols from different Interners must
// not be compared.
type Interner struct {
	lookup map[string]Symbol
	texts  []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{lookup: make(map[string]Symbol)}
}

// Intern returns the Symbol for text, allocating a new one on first sight.
func (in *Interner) Intern(text string) Symbol {
	if sym, ok := in.lookup[text]; ok {
		return sym
	}
	in.texts = append(in.texts, text)
	sym := Symbol(len(in.texts))
	in.lookup[text] = sym
	return sym
}

// InternBytes is Intern for a byte slice. The slice is only copied when the
// text has not been seen before.
func (in *Interner) InternBytes(text []byte) Symbol {
	if sym, ok := in.lookup[string(text)]; ok {
		return sym
	}
	return in.Intern(string(text))
}

// Resolve returns the text behind sym, or "" for None and unknown handles.
func (in *Interner) Resolve(sym Symbol) string {
	if sym == None || int(sym) > len(in.texts) {
		return ""
	}
	return in.texts[sym-1]
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return len(in.texts)
}
