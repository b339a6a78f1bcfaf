package history

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// DecodePGN imports a standard chess game from PGN. PGN carries no
// hidden-information metadata, so the importer synthesizes a full-visibility
// sense placeholder per turn and flags the record as lossy; the anchor square
// of a synthesized sense is meaningless (the whole board is revealed).
//
// Only a single game with a mainline is imported; recursive variations are
// discarded.
func DecodePGN(data []byte) (*Record, error) {
	tags, movetext := splitPGN(string(data))

	rec := &Record{
		WhiteName:   tags["White"],
		BlackName:   tags["Black"],
		Moves:       map[nchess.Color][]MoveRecord{},
		Senses:      map[nchess.Color][]SenseRecord{},
		Source:      "pgn",
		Synthesized: []string{"senses", "win_reason"},
	}
	if rec.WhiteName == "" {
		rec.WhiteName = "White"
	}
	if rec.BlackName == "" {
		rec.BlackName = "Black"
	}
	switch tags["Result"] {
	case "1-0":
		w := nchess.White
		rec.Winner = &w
	case "0-1":
		b := nchess.Black
		rec.Winner = &b
	}

	game := nchess.NewGame()
	for _, san := range sanTokens(movetext) {
		pos := game.Position()
		mover := pos.Turn()
		number := len(rec.Moves[mover])
		t := Turn{Number: number, Color: mover}

		before := pos.Board().SquareMap()
		if err := game.PushNotationMove(san, nchess.AlgebraicNotation{}, nil); err != nil {
			return nil, &MalformedError{Turn: &t, Field: "movetext", Reason: "illegal move " + san}
		}
		moves := game.Moves()
		mv := moves[len(moves)-1]

		taken := Move{From: mv.S1(), To: mv.S2(), Promo: mv.Promo()}
		mr := MoveRecord{Turn: t, Requested: &taken, Taken: &taken, FEN: game.FEN()}
		if mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant) {
			capSq := mv.S2()
			if mv.HasTag(nchess.EnPassant) {
				if mover == nchess.White {
					capSq = nchess.NewSquare(mv.S2().File(), mv.S2().Rank()-1)
				} else {
					capSq = nchess.NewSquare(mv.S2().File(), mv.S2().Rank()+1)
				}
			}
			mr.Capture = &capSq
		}
		rec.Moves[mover] = append(rec.Moves[mover], mr)
		rec.Senses[mover] = append(rec.Senses[mover], fullVisibilitySense(t, before))
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// fullVisibilitySense builds the lossy placeholder perception for an imported
// turn: every square revealed as it stood before the move.
func fullVisibilitySense(t Turn, board map[nchess.Square]nchess.Piece) SenseRecord {
	sr := SenseRecord{Turn: t, Square: nchess.NewSquare(nchess.FileE, nchess.Rank4)}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			sq := nchess.NewSquare(nchess.File(f), nchess.Rank(r))
			sr.Revealed = append(sr.Revealed, SquarePiece{Square: sq, Piece: pieceSymbol(board[sq])})
		}
	}
	return sr
}

func pieceSymbol(p nchess.Piece) string {
	if p == nchess.NoPiece {
		return ""
	}
	var s string
	switch p.Type() {
	case nchess.King:
		s = "k"
	case nchess.Queen:
		s = "q"
	case nchess.Rook:
		s = "r"
	case nchess.Bishop:
		s = "b"
	case nchess.Knight:
		s = "n"
	case nchess.Pawn:
		s = "p"
	default:
		return ""
	}
	if p.Color() == nchess.White {
		return strings.ToUpper(s)
	}
	return s
}

// splitPGN separates tag pairs from movetext. Tag parsing is deliberately
// lenient: a malformed tag line is skipped, not fatal.
func splitPGN(raw string) (map[string]string, string) {
	tags := map[string]string{}
	var movetext strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "%") {
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if k, v, ok := parseTagPair(trimmed); ok {
				tags[k] = v
				continue
			}
		}
		movetext.WriteString(line)
		movetext.WriteByte('\n')
	}
	return tags, movetext.String()
}

func parseTagPair(line string) (string, string, bool) {
	inner := strings.TrimSpace(line[1 : len(line)-1])
	open := strings.Index(inner, `"`)
	end := strings.LastIndex(inner, `"`)
	if open < 0 || end <= open {
		return "", "", false
	}
	key := strings.TrimSpace(inner[:open])
	if key == "" {
		return "", "", false
	}
	return key, inner[open+1 : end], true
}

// sanTokens strips comments, variations, numeric annotation glyphs, move
// numbers, and game results, leaving only the mainline SAN moves.
func sanTokens(movetext string) []string {
	var cleaned strings.Builder
	depth := 0
	inComment := false
	for i := 0; i < len(movetext); i++ {
		ch := movetext[i]
		switch {
		case inComment:
			if ch == '}' {
				inComment = false
			}
		case ch == '{':
			inComment = true
		case ch == ';':
			for i < len(movetext) && movetext[i] != '\n' {
				i++
			}
			cleaned.WriteByte('\n')
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			cleaned.WriteByte(ch)
		}
	}

	var out []string
	for _, tok := range strings.Fields(cleaned.String()) {
		switch tok {
		case "1-0", "0-1", "1/2-1/2", "*":
			continue
		}
		if strings.HasPrefix(tok, "$") {
			continue
		}
		// Suffix annotations ("e4!?", "Nf3!") are not SAN.
		tok = strings.TrimRight(tok, "!?")
		// Castling written with zeros instead of letter O, with or without a
		// check or mate suffix.
		if bare := strings.TrimRight(tok, "+#"); bare == "0-0" || bare == "0-0-0" {
			out = append(out, strings.ReplaceAll(tok, "0", "O"))
			continue
		}
		// "12.", "12..." or glued forms like "12.e4".
		tok = strings.TrimLeft(tok, "0123456789")
		tok = strings.TrimLeft(tok, ".")
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}
