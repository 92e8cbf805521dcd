package bitty

// EatResult reports what EscapeParser.EatByte did with the byte it was
// given.
type EatResult int

const (
	// EatNone means the byte was consumed and the parser wants more.
	EatNone EatResult = iota
	// EatError means the byte sequence does not match any rule; the parser
	// has reset to its start state.
	EatError
	// EatAccept means a full rule matched; call Result to retrieve it.
	EatAccept
	// EatAcceptButLastByteIsExtra means a rule matched without consuming
	// this byte (a numeric token terminated by a non-digit, non-separator
	// byte that itself starts the next sequence); call Result, then feed
	// this same byte again.
	EatAcceptButLastByteIsExtra
)

// EscapeParseResult is a single recognized escape sequence: which rule
// matched, and the tokens its grammar captured (numbers, number lists, and
// strings, in the order the rule's grammar defines them).
type EscapeParseResult struct {
	RuleNum uint16
	Tokens  []Token
}

type parserTokenType int

const (
	parserTokNone parserTokenType = iota
	parserTokNumber
	parserTokListOfNums
	parserTokString
)

// EscapeParser incrementally recognizes one escape sequence at a time by
// feeding it bytes after the initiating ESC (or, for OSC/DCS, the bytes
// following the introducer). It holds no buffer of the sequence itself —
// only the DFA state and whatever partial number/string token is in
// progress. Numeric parameters take constant memory; a string token (OSC,
// DCS) grows with the number of bytes in it.
type EscapeParser struct {
	resultReady bool
	result      EscapeParseResult

	dfaState uint16

	currentTokenType parserTokenType

	num     uint32
	numList []uint32

	str           []byte
	prevWasEscape bool
}

// pushToken completes one token of the current rule's grammar and advances
// the DFA. It is the only place dfaState changes.
func (p *EscapeParser) pushToken(tok Token) EatResult {
	p.result.Tokens = append(p.result.Tokens, tok)

	p.currentTokenType = parserTokNone

	tr := escapeDfa.Eat(p.dfaState, tok)

	switch {
	case tr.accept:
		p.result.RuleNum = tr.number
		p.dfaState = 0
		p.resultReady = true
		return EatAccept
	case !tr.exists:
		p.dfaState = 0
		p.result = EscapeParseResult{}
		return EatError
	default:
		p.dfaState = tr.number
		return EatNone
	}
}

// EatByte feeds one byte of the sequence to the parser. It recurses at most
// a small constant number of times per call (once per completed token that
// turns out not to consume the triggering byte), never proportional to the
// sequence length already seen.
func (p *EscapeParser) EatByte(b byte) EatResult {
	switch p.currentTokenType {
	case parserTokNone:
		switch {
		case '0' <= b && b <= '9':
			p.num = uint32(b - '0')
			p.numList = nil
			p.currentTokenType = parserTokNumber
			return EatNone
		case escapeDfa.hasStringTransition(p.dfaState):
			p.str = p.str[:0]
			p.prevWasEscape = false
			p.currentTokenType = parserTokString
			return p.EatByte(b)
		default:
			return p.pushToken(Token{Kind: TokenChar, Char: b})
		}

	case parserTokString:
		isTerminator := b == '\x07' || (p.prevWasEscape && b == '\\')
		if !isTerminator {
			p.str = append(p.str, b)
			p.prevWasEscape = b == '\x1b'
			return EatNone
		}

		if b == '\\' && p.prevWasEscape {
			p.str = p.str[:len(p.str)-1]
		}

		switch res := p.pushToken(Token{Kind: TokenString, Str: string(p.str)}); res {
		case EatError, EatAccept:
			return res
		default:
			return p.EatByte(b)
		}

	case parserTokNumber, parserTokListOfNums:
		switch {
		case '0' <= b && b <= '9':
			p.num = p.num*10 + uint32(b-'0')
			return EatNone
		case escapeDfa.hasNumListTransition(p.dfaState) && (b == ';' || b == ':'):
			if p.currentTokenType != parserTokListOfNums {
				p.numList = []uint32{p.num}
				p.currentTokenType = parserTokListOfNums
			} else {
				p.numList = append(p.numList, p.num)
			}
			p.num = 0
			return EatNone
		default:
			var res EatResult
			if p.currentTokenType == parserTokListOfNums {
				p.numList = append(p.numList, p.num)
				res = p.pushToken(Token{Kind: TokenNumberList, NumList: p.numList})
			} else {
				res = p.pushToken(Token{Kind: TokenNumber, Num: p.num})
			}

			switch res {
			case EatError:
				return res
			case EatAccept:
				return EatAcceptButLastByteIsExtra
			default:
				return p.EatByte(b)
			}
		}
	}

	return EatNone
}

// Result returns the most recently completed rule match and clears it. It
// must only be called after EatByte returns EatAccept or
// EatAcceptButLastByteIsExtra.
func (p *EscapeParser) Result() (EscapeParseResult, bool) {
	if !p.resultReady {
		return EscapeParseResult{}, false
	}
	result := p.result
	p.result = EscapeParseResult{}
	p.resultReady = false
	return result, true
}
