package shell

// Statement is a node produced by the control-flow parser. Nodes are built
// once per parse call and owned by whichever registry or executor consumes
// them.
type Statement interface {
	stmt()
}

// CommandStatement is a plain command or pipeline leaf, kept as raw text and
// re-lexed at execution time so variable state is current.
type CommandStatement struct {
	Line string
}

// ForStatement iterates a variable over a whitespace-split items expression.
// Items are stored unexpanded; expansion happens when the loop runs.
type ForStatement struct {
	Var   string
	Items string
	Body  Body
}

// WhileStatement runs its body while the condition command succeeds. With
// Until set the truth test is negated at execution time.
type WhileStatement struct {
	Condition string
	Until     bool
	Body      Body
}

// IfBranch pairs one condition with the body that runs when it succeeds.
type IfBranch struct {
	Condition string
	Body      Body
}

// IfStatement holds ordered if/elif branches plus an optional else body. The
// first branch whose condition evaluates truthy runs; the rest are skipped.
type IfStatement struct {
	Branches []IfBranch
	Else     *Body
}

// FunctionDefStatement records a function definition encountered in a parsed
// block.
type FunctionDefStatement struct {
	Name   string
	Params []string
	Body   Body
}

func (*CommandStatement) stmt()     {}
func (*ForStatement) stmt()         {}
func (*WhileStatement) stmt()       {}
func (*IfStatement) stmt()          {}
func (*FunctionDefStatement) stmt() {}

// Body is the sum type for statement and function bodies: either raw command
// lines re-parsed at execution time, or statements parsed up front. Exactly
// one representation is populated per instance.
type Body struct {
	raw    []string
	parsed []Statement
	isAST  bool
}

// RawBody wraps unparsed command lines.
func RawBody(lines []string) Body {
	return Body{raw: lines}
}

// ParsedBody wraps pre-parsed statements.
func ParsedBody(stmts []Statement) Body {
	return Body{parsed: stmts, isAST: true}
}

// IsAST reports which representation the body holds.
func (b Body) IsAST() bool {
	return b.isAST
}

// Raw returns the raw lines; nil for a parsed body.
func (b Body) Raw() []string {
	return b.raw
}

// Parsed returns the statement list; nil for a raw body.
func (b Body) Parsed() []Statement {
	return b.parsed
}

// Len returns the number of lines or statements held.
func (b Body) Len() int {
	if b.isAST {
		return len(b.parsed)
	}
	return len(b.raw)
}
