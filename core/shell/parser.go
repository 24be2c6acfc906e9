package shell

import (
	"strings"
)

// The control-flow parsers consume a group of raw lines (already split at
// statement boundaries by the caller) and return a structured statement, or
// (nil, nil) when the group does not start with the matching keyword. Hard
// syntax failures return a *ParseError; the lexer's permissiveness ends here.
//
// Comment and blank lines are skipped during structural scanning but kept in
// the stored body so they survive into later execution verbatim.

// ParseStatements walks a block of lines and groups them into statements,
// recursing into nested control-flow constructs. Plain lines become
// CommandStatement leaves.
func ParseStatements(lines []string) ([]Statement, error) {
	lines = normalizeLines(lines)
	var out []Statement

	for i := 0; i < len(lines); {
		t, ok := structural(lines[i])
		if !ok {
			i++
			continue
		}

		switch {
		case firstWord(t) == "for":
			end, err := doBlockEnd(lines, i)
			if err != nil {
				return nil, err
			}
			stmt, err := ParseForLoop(lines[i:end])
			if err != nil {
				return nil, err
			}
			out = append(out, stmt)
			i = end

		case firstWord(t) == "while", firstWord(t) == "until":
			end, err := doBlockEnd(lines, i)
			if err != nil {
				return nil, err
			}
			var stmt *WhileStatement
			if firstWord(t) == "while" {
				stmt, err = ParseWhileLoop(lines[i:end])
			} else {
				stmt, err = ParseUntilLoop(lines[i:end])
			}
			if err != nil {
				return nil, err
			}
			out = append(out, stmt)
			i = end

		case firstWord(t) == "if":
			end, err := ifBlockEnd(lines, i)
			if err != nil {
				return nil, err
			}
			stmt, err := ParseIfStatement(lines[i:end])
			if err != nil {
				return nil, err
			}
			out = append(out, stmt)
			i = end

		case looksLikeFunctionDef(t):
			end, err := braceBlockEnd(lines, i)
			if err != nil {
				return nil, err
			}
			stmt, err := ParseFunctionDef(lines[i:end])
			if err != nil {
				return nil, err
			}
			if stmt == nil {
				// Header resembled a definition but did not parse as one;
				// fall back to treating the line as a command.
				out = append(out, &CommandStatement{Line: t})
				i++
				continue
			}
			out = append(out, stmt)
			i = end

		default:
			out = append(out, &CommandStatement{Line: t})
			i++
		}
	}

	return out, nil
}

// ParseForLoop parses `for VAR in ITEMS...` followed by a do/done body. The
// items list may be empty (a zero-iteration loop) and is stored unexpanded;
// expansion happens when the loop runs.
func ParseForLoop(lines []string) (*ForStatement, error) {
	i, header, ok := firstStructural(lines, 0)
	if !ok {
		return nil, nil
	}
	header, inlineDo := splitInlineKeyword(header, "do")

	fields := strings.Fields(header)
	if len(fields) == 0 || fields[0] != "for" {
		return nil, nil
	}
	if len(fields) < 2 {
		return nil, &ParseError{Message: "for: missing loop variable", Line: i + 1}
	}
	if len(fields) < 3 || fields[2] != "in" {
		return nil, &ParseError{Message: "for: expected 'in' after loop variable", Line: i + 1}
	}

	j := i + 1
	if !inlineDo {
		var err error
		j, err = expectKeyword(lines, j, "do", "for")
		if err != nil {
			return nil, err
		}
	}

	body, err := collectDoBody(lines, j, "for")
	if err != nil {
		return nil, err
	}

	return &ForStatement{
		Var:   fields[1],
		Items: strings.Join(fields[3:], " "),
		Body:  RawBody(body),
	}, nil
}

// ParseWhileLoop parses `while CONDITION` followed by a do/done body. The
// condition is stored as raw text and re-evaluated before every iteration.
func ParseWhileLoop(lines []string) (*WhileStatement, error) {
	return parseConditionLoop(lines, "while", false)
}

// ParseUntilLoop parses `until CONDITION`; the condition's truth test is
// negated at execution time, not here.
func ParseUntilLoop(lines []string) (*WhileStatement, error) {
	return parseConditionLoop(lines, "until", true)
}

func parseConditionLoop(lines []string, keyword string, until bool) (*WhileStatement, error) {
	i, header, ok := firstStructural(lines, 0)
	if !ok {
		return nil, nil
	}
	header, inlineDo := splitInlineKeyword(header, "do")

	if firstWord(header) != keyword {
		return nil, nil
	}
	condition := strings.TrimSpace(header[len(keyword):])
	if condition == "" {
		return nil, &ParseError{Message: keyword + ": missing condition", Line: i + 1}
	}

	j := i + 1
	if !inlineDo {
		var err error
		j, err = expectKeyword(lines, j, "do", keyword)
		if err != nil {
			return nil, err
		}
	}

	body, err := collectDoBody(lines, j, keyword)
	if err != nil {
		return nil, err
	}

	return &WhileStatement{Condition: condition, Until: until, Body: RawBody(body)}, nil
}

// ParseIfStatement parses if/elif/else/fi groups, with `then` accepted inline
// (`if COND; then`) or on its own line. Branch conditions are stored raw and
// evaluated in order at execution time.
func ParseIfStatement(lines []string) (*IfStatement, error) {
	i, header, ok := firstStructural(lines, 0)
	if !ok {
		return nil, nil
	}
	header, inlineThen := splitInlineKeyword(header, "then")

	if firstWord(header) != "if" {
		return nil, nil
	}
	condition := strings.TrimSpace(header[len("if"):])
	if condition == "" {
		return nil, &ParseError{Message: "if: missing condition", Line: i + 1}
	}

	stmt := &IfStatement{}
	var body []string
	inElse := false
	awaitingThen := !inlineThen
	depth := 0

	finishBranch := func() {
		if inElse {
			b := RawBody(trimLines(body))
			stmt.Else = &b
		} else {
			stmt.Branches = append(stmt.Branches, IfBranch{
				Condition: condition,
				Body:      RawBody(trimLines(body)),
			})
		}
		body = nil
	}

	for j := i + 1; j < len(lines); j++ {
		t, structuralLine := structural(lines[j])
		if !structuralLine {
			if !awaitingThen {
				body = append(body, lines[j])
			}
			continue
		}

		if awaitingThen {
			if t != "then" {
				return nil, &ParseError{Message: "if: expected 'then'", Line: j + 1}
			}
			awaitingThen = false
			continue
		}

		switch {
		case firstWord(t) == "if":
			depth++
			body = append(body, lines[j])

		case t == "fi":
			if depth == 0 {
				finishBranch()
				return stmt, nil
			}
			depth--
			body = append(body, lines[j])

		case depth == 0 && firstWord(t) == "elif":
			finishBranch()
			header, inline := splitInlineKeyword(t, "then")
			condition = strings.TrimSpace(header[len("elif"):])
			if condition == "" {
				return nil, &ParseError{Message: "elif: missing condition", Line: j + 1}
			}
			awaitingThen = !inline

		case depth == 0 && t == "else":
			finishBranch()
			inElse = true

		default:
			body = append(body, lines[j])
		}
	}

	return nil, &ParseError{Message: "if: missing 'fi'", Line: len(lines)}
}

// ParseFunctionDef parses `function name() { ... }` and bare `name() { ... }`
// forms. When the body contains nested control-flow constructs it is parsed
// recursively into statements; otherwise the raw lines are kept.
func ParseFunctionDef(lines []string) (*FunctionDefStatement, error) {
	i, header, ok := firstStructural(lines, 0)
	if !ok {
		return nil, nil
	}

	name, params, rest, ok := parseFunctionHeader(header)
	if !ok {
		return nil, nil
	}

	j := i + 1
	if rest == "" {
		// Opening brace on its own line.
		k, brace, found := firstStructural(lines, j)
		if !found || brace != "{" {
			return nil, &ParseError{Message: "function " + name + ": expected '{'", Line: j + 1}
		}
		j = k + 1
	} else if rest != "{" {
		return nil, &ParseError{Message: "function " + name + ": unexpected text after parameter list", Line: i + 1}
	}

	depth := 1
	var body []string
	for ; j < len(lines); j++ {
		t, structuralLine := structural(lines[j])
		if structuralLine {
			if strings.HasSuffix(t, "{") {
				depth++
			}
			if t == "}" {
				depth--
				if depth == 0 {
					return buildFunctionDef(name, params, body)
				}
			}
		}
		body = append(body, lines[j])
	}

	return nil, &ParseError{Message: "function " + name + ": missing '}'", Line: len(lines)}
}

func buildFunctionDef(name string, params, body []string) (*FunctionDefStatement, error) {
	if !containsControlFlow(body) {
		return &FunctionDefStatement{Name: name, Params: params, Body: RawBody(trimLines(body))}, nil
	}
	stmts, err := ParseStatements(body)
	if err != nil {
		return nil, err
	}
	return &FunctionDefStatement{Name: name, Params: params, Body: ParsedBody(stmts)}, nil
}

// parseFunctionHeader recognizes `function name() REST`, `function name REST`
// and `name() REST` headers, returning the text after the parameter list.
func parseFunctionHeader(line string) (name string, params []string, rest string, ok bool) {
	t := line
	keyword := false
	if firstWord(t) == "function" {
		keyword = true
		t = strings.TrimSpace(t[len("function"):])
	}

	open := strings.IndexByte(t, '(')
	if open < 0 {
		if !keyword {
			return "", nil, "", false
		}
		fields := strings.Fields(t)
		if len(fields) == 0 || !validFunctionName(fields[0]) {
			return "", nil, "", false
		}
		return fields[0], nil, strings.TrimSpace(t[len(fields[0]):]), true
	}

	closing := strings.IndexByte(t, ')')
	if closing < open {
		return "", nil, "", false
	}

	name = strings.TrimSpace(t[:open])
	if !validFunctionName(name) {
		return "", nil, "", false
	}
	params = strings.FieldsFunc(t[open+1:closing], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(params) == 0 {
		params = nil
	}
	return name, params, strings.TrimSpace(t[closing+1:]), true
}

func validFunctionName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9', c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// looksLikeFunctionDef reports whether a structural line could begin a
// function definition.
func looksLikeFunctionDef(t string) bool {
	if firstWord(t) == "function" {
		return true
	}
	open := strings.IndexByte(t, '(')
	if open <= 0 {
		return false
	}
	return validFunctionName(strings.TrimSpace(t[:open]))
}

func containsControlFlow(lines []string) bool {
	for _, line := range lines {
		t, ok := structural(line)
		if !ok {
			continue
		}
		switch firstWord(t) {
		case "for", "while", "until", "if":
			return true
		}
		if looksLikeFunctionDef(t) {
			return true
		}
	}
	return false
}

// doBlockEnd returns the index one past the `done` matching the loop header
// at lines[start], counting nested do/done pairs.
func doBlockEnd(lines []string, start int) (int, error) {
	depth := 0
	for j := start; j < len(lines); j++ {
		t, ok := structural(lines[j])
		if !ok {
			continue
		}
		if t == "do" || hasInlineKeyword(t, "do") {
			depth++
		}
		if t == "done" {
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, &ParseError{Message: "missing 'done'", Line: len(lines)}
}

// ifBlockEnd returns the index one past the `fi` matching the if header at
// lines[start], counting nested if/fi pairs.
func ifBlockEnd(lines []string, start int) (int, error) {
	depth := 0
	for j := start; j < len(lines); j++ {
		t, ok := structural(lines[j])
		if !ok {
			continue
		}
		if firstWord(t) == "if" {
			depth++
		}
		if t == "fi" {
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, &ParseError{Message: "missing 'fi'", Line: len(lines)}
}

// braceBlockEnd returns the index one past the `}` closing the function body
// opened at or after lines[start].
func braceBlockEnd(lines []string, start int) (int, error) {
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		t, ok := structural(lines[j])
		if !ok {
			continue
		}
		if strings.HasSuffix(t, "{") {
			depth++
			opened = true
		}
		if t == "}" {
			depth--
			if opened && depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, &ParseError{Message: "missing '}'", Line: len(lines)}
}

// collectDoBody gathers body lines from lines[start] until the matching
// `done`, tracking nested loops.
func collectDoBody(lines []string, start int, keyword string) ([]string, error) {
	depth := 1
	var body []string
	for j := start; j < len(lines); j++ {
		t, ok := structural(lines[j])
		if ok {
			if t == "do" || hasInlineKeyword(t, "do") {
				depth++
			}
			if t == "done" {
				depth--
				if depth == 0 {
					return trimLines(body), nil
				}
			}
		}
		body = append(body, lines[j])
	}
	return nil, &ParseError{Message: keyword + ": missing 'done'", Line: len(lines)}
}

// expectKeyword requires the next structural line to be exactly keyword and
// returns the index after it.
func expectKeyword(lines []string, start int, keyword, construct string) (int, error) {
	j, t, ok := firstStructural(lines, start)
	if !ok || t != keyword {
		return 0, &ParseError{Message: construct + ": expected '" + keyword + "'", Line: start + 1}
	}
	return j + 1, nil
}

// structural returns the trimmed line and whether it participates in
// structural scanning. Blank lines and comments do not.
func structural(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "#") {
		return t, false
	}
	return t, true
}

// firstStructural finds the first structural line at or after start.
func firstStructural(lines []string, start int) (int, string, bool) {
	for i := start; i < len(lines); i++ {
		if t, ok := structural(lines[i]); ok {
			return i, t, true
		}
	}
	return 0, "", false
}

// normalizeLines expands control-flow lines written as one-liners into their
// multi-line form before structural scanning, so `if true; then echo hi; fi`
// parses like the block layout.
func normalizeLines(lines []string) []string {
	expanded := false
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t, ok := structural(line)
		if ok && strings.ContainsRune(t, ';') {
			switch firstWord(t) {
			case "for", "while", "until", "if":
				parts := expandInline(t)
				if len(parts) > 1 {
					out = append(out, parts...)
					expanded = true
					continue
				}
			}
		}
		out = append(out, line)
	}
	if !expanded {
		return lines
	}
	return out
}

// expandInline splits a control-flow line at top-level semicolons into
// separate lines, putting `then`, `do` and `else` on lines of their own.
func expandInline(t string) []string {
	segs := splitSegments(t)
	if len(segs) < 2 {
		return []string{t}
	}
	var out []string
	for _, seg := range segs {
		switch fw := firstWord(seg); fw {
		case "then", "do", "else":
			out = append(out, fw)
			if rest := strings.TrimSpace(seg[len(fw):]); rest != "" {
				out = append(out, rest)
			}
		default:
			out = append(out, seg)
		}
	}
	return out
}

// splitSegments splits a line at semicolons outside quotes and escapes.
// Empty segments are dropped.
func splitSegments(t string) []string {
	var segs []string
	var tracker QuoteTracker
	start := 0
	flush := func(end int) {
		if seg := strings.TrimSpace(t[start:end]); seg != "" {
			segs = append(segs, seg)
		}
	}
	for i, c := range t {
		wasEscaped := tracker.Escaped()
		if tracker.ProcessChar(c) {
			continue
		}
		if c == ';' && !wasEscaped && !tracker.InQuotes() {
			flush(i)
			start = i + 1
		}
	}
	flush(len(t))
	return segs
}

// splitInlineKeyword splits `while true; do` into ("while true", true). The
// keyword must be the final semicolon-separated element.
func splitInlineKeyword(line, keyword string) (string, bool) {
	t := strings.TrimSpace(line)
	if idx := strings.LastIndexByte(t, ';'); idx >= 0 && strings.TrimSpace(t[idx+1:]) == keyword {
		return strings.TrimSpace(t[:idx]), true
	}
	return t, false
}

func hasInlineKeyword(line, keyword string) bool {
	_, ok := splitInlineKeyword(line, keyword)
	return ok
}

func firstWord(t string) string {
	if i := strings.IndexAny(t, " \t"); i >= 0 {
		return t[:i]
	}
	return t
}

func trimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}
