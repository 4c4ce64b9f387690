package peerquery

import "strings"

var (
	keywordCandidates = []string{"where ", "sort ", "clear"}
	clearTargets      = []string{"where", "sort"}
	sortDirections    = []string{"asc", "desc"}
)

// CompletionCandidates returns full replacement strings for the current
// command input, in a stable order. It is a pure function of the input text
// and the known field paths; the caller cycles through the returned list on
// repeated completion requests until the input changes.
func CompletionCandidates(input string, fields []string) []string {
	text := strings.TrimLeft(input, " \t")
	if text == "" {
		return append([]string(nil), keywordCandidates...)
	}
	trailingSpace := strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\t")

	sep := strings.IndexAny(text, " \t")
	if sep < 0 {
		var out []string
		for _, kw := range keywordCandidates {
			if strings.HasPrefix(kw, strings.ToLower(text)) {
				out = append(out, kw)
			}
		}
		return out
	}

	base := text[:sep+1]
	body := text[sep+1:]

	switch strings.ToLower(text[:sep]) {
	case "clear":
		return completeClear(base, body, trailingSpace)
	case "sort":
		return completeSort(base, body, trailingSpace, fields)
	case "where":
		return completeWhere(base, body, trailingSpace, fields)
	default:
		return nil
	}
}

func completeClear(base, body string, trailingSpace bool) []string {
	arg := strings.TrimSpace(body)
	if arg != "" && trailingSpace {
		return nil
	}
	var out []string
	for _, t := range clearTargets {
		if strings.HasPrefix(t, strings.ToLower(arg)) {
			out = append(out, base+t)
		}
	}
	return out
}

func completeSort(base, body string, trailingSpace bool, fields []string) []string {
	toks, err := scanTokens(body)
	if err != nil {
		return nil
	}

	replaceFrom := func(off int, cands []string, prefix string) []string {
		var out []string
		for _, c := range cands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, base+body[:off]+c)
			}
		}
		return out
	}

	switch {
	case len(toks) == 0:
		return replaceFrom(len(body), fields, "")
	case len(toks) == 1 && !trailingSpace:
		return replaceFrom(toks[0].start, fields, toks[0].text)
	case len(toks) == 1 && trailingSpace:
		return replaceFrom(len(body), sortDirections, "")
	case len(toks) == 2 && !trailingSpace:
		return replaceFrom(toks[1].start, sortDirections, strings.ToLower(toks[1].text))
	default:
		return nil
	}
}

// completeWhere stages completion on the last clause only. Every returned
// candidate carries the prior complete clauses verbatim as a fixed prefix.
func completeWhere(base, body string, trailingSpace bool, fields []string) []string {
	toks, err := scanTokens(body)
	if err != nil {
		return nil
	}

	// Tokens of the clause currently being typed.
	last := toks
	for i := len(toks) - 1; i >= 0; i-- {
		if !toks[i].quoted && strings.EqualFold(toks[i].text, "and") {
			last = toks[i+1:]
			break
		}
	}

	replaceFrom := func(off int, cands []string, prefix string) []string {
		var out []string
		for _, c := range cands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, base+body[:off]+c)
			}
		}
		return out
	}
	appendAll := func(cands []string) []string {
		joiner := ""
		if body != "" && !trailingSpace {
			joiner = " "
		}
		var out []string
		for _, c := range cands {
			out = append(out, base+body+joiner+c)
		}
		return out
	}

	switch {
	case len(last) == 0:
		return appendAll(fields)
	case len(last) == 1 && !trailingSpace:
		return replaceFrom(last[0].start, fields, last[0].text)
	case len(last) == 1 && trailingSpace:
		return appendAll(operators)
	case len(last) == 2 && !trailingSpace:
		return replaceFrom(last[1].start, operators, last[1].text)
	case len(last) == 2 && trailingSpace:
		return appendAll(valueSuggestions(last[0].text))
	case len(last) == 3 && !trailingSpace:
		if last[2].quoted {
			return nil
		}
		return replaceFrom(last[2].start, valueSuggestions(last[0].text), last[2].text)
	case len(last) == 3 && trailingSpace:
		return []string{base + body + "and "}
	default:
		return nil
	}
}

// valueSuggestions proposes sample right-hand-side values keyed on the field
// name. Best-effort; unknown fields get no suggestions.
func valueSuggestions(field string) []string {
	name := strings.ToLower(field)
	switch {
	case strings.Contains(name, "inbound") || strings.Contains(name, "relay"):
		return []string{"true", "false"}
	case strings.Contains(name, "connection_type"):
		return []string{
			"outbound-full-relay",
			"block-relay-only",
			"inbound",
			"manual",
			"feeler",
			"addr-fetch",
		}
	case strings.Contains(name, "network"):
		return []string{"ipv4", "ipv6", "onion", "i2p", "cjdns", "not_publicly_routable"}
	default:
		return nil
	}
}
