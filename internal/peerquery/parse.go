package peerquery

import (
	"fmt"
	"strconv"
	"strings"
)

// token is one lexed unit of a command body. Quoted string content is stored
// without its quotes; start and end are byte offsets into the original text
// including the quotes.
type token struct {
	text   string
	quoted bool
	start  int
	end    int
}

// scanTokens lexes whitespace-separated tokens, keeping single- or
// double-quoted runs together. Quoted content is taken verbatim; there are no
// escape sequences.
func scanTokens(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string at position %d", i)
			}
			toks = append(toks, token{
				text:   s[i+1 : i+1+end],
				quoted: true,
				start:  i,
				end:    i + end + 2,
			})
			i += end + 2
		default:
			start := i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '\'' && s[i] != '"' {
				i++
			}
			toks = append(toks, token{text: s[start:i], start: start, end: i})
		}
	}
	return toks, nil
}

// splitClauses groups tokens into clauses around top-level "and" keywords.
// The keyword only splits when unquoted, so string literals containing the
// word "and" stay intact.
func splitClauses(toks []token) [][]token {
	var clauses [][]token
	current := []token{}
	for _, t := range toks {
		if !t.quoted && strings.EqualFold(t.text, "and") {
			clauses = append(clauses, current)
			current = []token{}
			continue
		}
		current = append(current, t)
	}
	return append(clauses, current)
}

func parseOp(s string) (Op, bool) {
	switch s {
	case "==":
		return OpEq, true
	case "!=":
		return OpNe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case "~=":
		return OpContains, true
	default:
		return 0, false
	}
}

var operators = []string{"==", "!=", ">", ">=", "<", "<=", "~="}

// parseLiteral types a right-hand-side token. Quoted text is a string
// verbatim; otherwise true/false, null and numbers are recognized before
// falling back to a bareword string.
func parseLiteral(t token) Literal {
	if t.quoted {
		return Literal{Kind: LitString, Str: t.text}
	}
	switch strings.ToLower(t.text) {
	case "true":
		return Literal{Kind: LitBool, Bool: true}
	case "false":
		return Literal{Kind: LitBool, Bool: false}
	case "null":
		return Literal{Kind: LitNull}
	}
	if n, err := strconv.ParseFloat(t.text, 64); err == nil {
		return Literal{Kind: LitNumber, Num: n}
	}
	return Literal{Kind: LitString, Str: t.text}
}

func parseClause(toks []token) (Condition, error) {
	if len(toks) != 3 {
		return Condition{}, fmt.Errorf("expected 'field operator value', got %d tokens", len(toks))
	}
	if toks[0].quoted {
		return Condition{}, fmt.Errorf("field path must not be quoted")
	}
	op, ok := parseOp(toks[1].text)
	if !ok {
		return Condition{}, fmt.Errorf("unknown operator %q", toks[1].text)
	}
	cond := Condition{Field: toks[0].text, Op: op, Value: parseLiteral(toks[2])}
	if op == OpContains && cond.Value.Kind != LitString {
		return Condition{}, fmt.Errorf("~= requires a string value")
	}
	return cond, nil
}

func parseWhere(body string) ([]Condition, error) {
	toks, err := scanTokens(body)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("where requires at least one clause")
	}
	var conds []Condition
	for _, clause := range splitClauses(toks) {
		cond, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseSort(body string) (*Sort, error) {
	toks, err := scanTokens(body)
	if err != nil {
		return nil, err
	}
	switch len(toks) {
	case 1:
		return &Sort{Field: toks[0].text}, nil
	case 2:
		switch strings.ToLower(toks[1].text) {
		case "asc":
			return &Sort{Field: toks[0].text}, nil
		case "desc":
			return &Sort{Field: toks[0].text, Descending: true}, nil
		default:
			return nil, fmt.Errorf("sort direction must be asc or desc, got %q", toks[1].text)
		}
	default:
		return nil, fmt.Errorf("sort requires a field and an optional direction")
	}
}

// ApplyCommand parses one command and mutates q accordingly. Application is
// all-or-nothing: on any error q is left untouched.
//
// Grammar (keywords case-insensitive):
//
//	clear | clear where | clear sort
//	where <field> <op> <value> [and <field> <op> <value>]*
//	sort <field> [asc|desc]
func ApplyCommand(q *Query, input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("empty command")
	}

	keyword, body, _ := strings.Cut(trimmed, " ")
	body = strings.TrimSpace(body)

	switch strings.ToLower(keyword) {
	case "clear":
		switch strings.ToLower(body) {
		case "":
			q.Conditions = nil
			q.Sort = nil
		case "where":
			q.Conditions = nil
		case "sort":
			q.Sort = nil
		default:
			return fmt.Errorf("clear takes 'where', 'sort' or nothing, got %q", body)
		}
		return nil
	case "where":
		conds, err := parseWhere(body)
		if err != nil {
			return err
		}
		q.Conditions = conds
		return nil
	case "sort":
		if body == "" {
			return fmt.Errorf("sort requires a field")
		}
		s, err := parseSort(body)
		if err != nil {
			return err
		}
		q.Sort = s
		return nil
	default:
		return fmt.Errorf("unknown command %q, expected where, sort or clear", keyword)
	}
}
