package sourcemap

import "github.com/rotisserie/eris"

// ParseLiteral parses a single { key: value, ... } block. Keys may be quoted
// strings, identifiers or numbers; values may be quoted strings or numbers.
// A trailing comma before the closing brace is accepted. Duplicate keys are
// returned in source order; resolving them is the caller's concern.
func ParseLiteral(block string) ([]Pair, error) {
	lx := &lexer{src: block}

	if _, err := expect(lx, tokLBrace); err != nil {
		return nil, err
	}

	var pairs []Pair
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokRBrace {
			break
		}
		if tok.kind != tokString && tok.kind != tokIdent && tok.kind != tokNumber {
			return nil, unexpected(tok, "key")
		}
		key := tok.text

		if _, err := expect(lx, tokColon); err != nil {
			return nil, err
		}

		val, err := lx.next()
		if err != nil {
			return nil, err
		}
		if val.kind != tokString && val.kind != tokNumber {
			return nil, unexpected(val, "value")
		}
		pairs = append(pairs, Pair{Key: key, Value: val.text})

		sep, err := lx.next()
		if err != nil {
			return nil, err
		}
		if sep.kind == tokRBrace {
			break
		}
		if sep.kind != tokComma {
			return nil, unexpected(sep, "',' or '}'")
		}
	}

	tail, err := lx.next()
	if err != nil {
		return nil, err
	}
	if tail.kind != tokEOF {
		return nil, unexpected(tail, "end of block")
	}
	return pairs, nil
}

func expect(lx *lexer, kind tokenKind) (token, error) {
	tok, err := lx.next()
	if err != nil {
		return token{}, err
	}
	if tok.kind != kind {
		return token{}, unexpected(tok, kind.String())
	}
	return tok, nil
}

func unexpected(tok token, want string) error {
	return eris.Wrapf(ErrParseFailure, "offset %d: expected %s, got %s", tok.pos, want, tok.kind)
}
