package asm

import (
	"fmt"
)

// PreprocessReason enumerates preprocessor failure kinds.
type PreprocessReason int

const (
	PreUnknownMacro PreprocessReason = iota
	PreParameterCountMismatch
	PreUnknownParameter
	PreRecursiveExpansion
	PreMissingSymbol
	PreMissingLeftBrace
	PreMissingRightBrace
	PreUnexpectedEndOfFile
)

func (r PreprocessReason) String() string {
	switch r {
	case PreUnknownMacro:
		return "unknown macro"
	case PreParameterCountMismatch:
		return "macro parameter count mismatch"
	case PreUnknownParameter:
		return "unknown macro parameter"
	case PreRecursiveExpansion:
		return "recursive macro expansion"
	case PreMissingSymbol:
		return "expected symbol"
	case PreMissingLeftBrace:
		return "expected left brace"
	case PreMissingRightBrace:
		return "expected right brace"
	case PreUnexpectedEndOfFile:
		return "unexpected end of file"
	default:
		return "unknown preprocessor error"
	}
}

type PreprocessError struct {
	Offset int
	Reason PreprocessReason
	Detail string
}

func (e *PreprocessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at offset %d: %s", e.Reason, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
}

type macroDef struct {
	name   string
	params []string
	body   []Token
	labels map[string]bool
}

type preprocessState struct {
	eqv        map[string]Token
	macros     map[string]*macroDef
	expanding  map[string]bool
	seed       int
}

// Preprocess expands .eqv equates and .macro/.end_macro bodies, yielding a
// macro-free, equate-free token stream.
func Preprocess(tokens []Token) ([]Token, error) {
	state := &preprocessState{
		eqv:       make(map[string]Token),
		macros:    make(map[string]*macroDef),
		expanding: make(map[string]bool),
	}

	return state.preprocess(tokens)
}

func (s *preprocessState) preprocess(tokens []Token) ([]Token, error) {
	cursor := NewCursor(tokens)
	var out []Token

	for {
		tok, ok := cursor.Next()
		if !ok {
			break
		}

		if tok.Kind == KindDirective && tok.Name == "eqv" {
			if err := s.consumeEqv(cursor); err != nil {
				return nil, err
			}
			continue
		}

		if tok.Kind == KindDirective && tok.Name == "macro" {
			if err := s.consumeMacroDef(cursor); err != nil {
				return nil, err
			}
			continue
		}

		if tok.Kind == KindSymbol {
			if replacement, ok := s.eqv[tok.Name]; ok {
				out = append(out, replacement)
				continue
			}

			if def, ok := s.macros[tok.Name]; ok {
				if peeked, more := cursor.Peek(); more && peeked.Kind == KindLeftBrace {
					expanded, err := s.expandCall(def, cursor, tok.Start)
					if err != nil {
						return nil, err
					}
					out = append(out, expanded...)
					continue
				}
			}
		}

		out = append(out, tok)
	}

	return out, nil
}

func (s *preprocessState) consumeEqv(cursor *Cursor) error {
	nameTok, ok := cursor.NextSolid()
	if !ok || nameTok.Kind != KindSymbol {
		return &PreprocessError{Reason: PreMissingSymbol}
	}

	valueTok, ok := cursor.NextSolid()
	if !ok {
		return &PreprocessError{Offset: nameTok.Start, Reason: PreUnexpectedEndOfFile}
	}

	s.eqv[nameTok.Name] = valueTok
	return nil
}

func (s *preprocessState) consumeMacroDef(cursor *Cursor) error {
	nameTok, ok := cursor.NextSolid()
	if !ok || nameTok.Kind != KindSymbol {
		return &PreprocessError{Reason: PreMissingSymbol}
	}

	def := &macroDef{name: nameTok.Name, labels: make(map[string]bool)}

	if lb, ok := cursor.NextSolid(); !ok || lb.Kind != KindLeftBrace {
		return &PreprocessError{Offset: nameTok.Start, Reason: PreMissingLeftBrace}
	}

	for {
		t, ok := cursor.NextSolid()
		if !ok {
			return &PreprocessError{Offset: nameTok.Start, Reason: PreUnexpectedEndOfFile}
		}
		if t.Kind == KindRightBrace {
			break
		}
		if t.Kind != KindParameter {
			return &PreprocessError{Offset: t.Start, Reason: PreMissingSymbol, Detail: "expected %param"}
		}
		def.params = append(def.params, t.Name)
	}

	// Body runs until a matching .end_macro directive, tracking declared
	// labels (Symbol Colon) for hygienic renaming on expansion.
	for {
		t, ok := cursor.Next()
		if !ok {
			return &PreprocessError{Offset: nameTok.Start, Reason: PreUnexpectedEndOfFile}
		}
		if t.Kind == KindDirective && (t.Name == "end_macro" || t.Name == "endmacro") {
			break
		}

		if t.Kind == KindSymbol {
			if next, ok := cursor.Peek(); ok && next.Kind == KindColon {
				def.labels[t.Name] = true
			}
		}

		def.body = append(def.body, t)
	}

	s.macros[def.name] = def
	return nil
}

func (s *preprocessState) expandCall(def *macroDef, cursor *Cursor, callOffset int) ([]Token, error) {
	if s.expanding[def.name] {
		return nil, &PreprocessError{Offset: callOffset, Reason: PreRecursiveExpansion, Detail: def.name}
	}

	if _, ok := cursor.Next(); !ok { // consume the left brace already peeked
		return nil, &PreprocessError{Offset: callOffset, Reason: PreMissingLeftBrace}
	}

	var args [][]Token
	var current []Token
	depth := 0
	for {
		t, ok := cursor.Next()
		if !ok {
			return nil, &PreprocessError{Offset: callOffset, Reason: PreUnexpectedEndOfFile}
		}

		switch t.Kind {
		case KindLeftBrace:
			depth++
			current = append(current, t)
		case KindRightBrace:
			if depth == 0 {
				args = append(args, current)
				goto done
			}
			depth--
			current = append(current, t)
		case KindComma:
			if depth == 0 {
				args = append(args, current)
				current = nil
			} else {
				current = append(current, t)
			}
		case KindComment, KindNewLine:
			// ignored inside argument lists
		default:
			current = append(current, t)
		}
	}
done:

	if len(args) == 1 && len(args[0]) == 0 {
		args = nil
	}

	if len(args) != len(def.params) {
		return nil, &PreprocessError{Offset: callOffset, Reason: PreParameterCountMismatch, Detail: def.name}
	}

	paramValues := make(map[string][]Token, len(def.params))
	for i, p := range def.params {
		paramValues[p] = args[i]
	}

	s.seed++
	seed := s.seed

	var expanded []Token
	for _, t := range def.body {
		switch t.Kind {
		case KindParameter:
			replacement, ok := paramValues[t.Name]
			if !ok {
				return nil, &PreprocessError{Offset: t.Start, Reason: PreUnknownParameter, Detail: t.Name}
			}
			expanded = append(expanded, replacement...)
		case KindSymbol:
			if def.labels[t.Name] {
				renamed := t
				renamed.Name = fmt.Sprintf("_M%s_%d", t.Name, seed)
				expanded = append(expanded, renamed)
				continue
			}
			expanded = append(expanded, t)
		default:
			expanded = append(expanded, t)
		}
	}

	s.expanding[def.name] = true
	result, err := s.preprocess(expanded)
	delete(s.expanding, def.name)
	if err != nil {
		return nil, err
	}

	return result, nil
}
