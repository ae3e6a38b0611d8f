// Package lang implements the coral scripting language: a statement parser
// built on the pattern engine of package pattern, a precedence climbing
// expression parser, and a tree-walking evaluator over lexically scoped
// namespaces.
//
// # Pipeline
//
// Source text is tokenized by package lexer, parsed into a [Module] of
// [Statement] nodes by [Parse], and executed by [Program.Run]. [Compile]
// performs the first two steps and caches the result.
//
//	prog, err := lang.Compile(ctx, `print 1 + 2 * 3;`)
//	if err != nil {
//		return err
//	}
//	return prog.Run(ctx, lang.NewRootNamespace())
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → Statement*
//	Statement   → Ident '=' Expr ';'
//	            | Ident CompoundOp Expr ';'
//	            | 'while' '(' Expr ')' Block
//	            | 'if' '(' Expr ')' Block ('elif' '(' Expr ')' Block)* ('else' Block)?
//	            | 'func' Ident '(' (Ident (',' Ident)*)? ')' Block
//	            | 'return' Expr? ';'
//	            | 'print' Expr ';'
//	            | Expr ';'
//	Block       → '{' Statement* '}'
//	Expr        → Unary (BinaryOp Unary)*
//	Unary       → ('-' | '!') Unary | Primary
//	Primary     → Literal | Ident | Ident '(' Args? ')' | '(' Expr ')'
//
// # Operators
//
// Binary operators from weakest to strongest. All are left associative
// except **.
//
//	||
//	^^
//	&&
//	:>  <  >  <=  >=  !=  ==  ===  !==
//	|
//	^
//	&
//	<<  >>
//	+  -
//	*  /  @  %
//	**
//
// # Scoping
//
// Every block runs in a new [Namespace] enclosed by the current one. An
// assignment rebinds the nearest enclosing binding of its name, or creates a
// binding in the current namespace. Functions capture the namespace they are
// defined in by reference, so later changes to it are visible to them.
package lang
