/* Package main: flock, a tiered engine for a very small language

A flock program is a sequence of whitespace separated words. Four of them
print a symbol:

	a  prints "duck"
	b  prints "goose"
	c  prints "swan"
	d  prints "finch"

The values printed are configurable; the letters are fixed. Functions are
defined with FUN NAME ... END and invoked with RUN NAME. Keywords and symbols
may be written in any case; function names are taken verbatim.

	fun greet a end run greet

prints "duck" once. A definition prints nothing by itself, and a function
body may define further functions, which are only visible inside that body:

	fun outer
		fun inner b end
		run inner
	end
	run outer

prints "goose", while a top level "run inner" fails, since inner was never
defined at the top level. Functions cannot see anything defined outside of
their own body, siblings included, so no function can call itself.

Source is first lexed into tokens, then emitted into a flat bytecode Program,
where each function body is stored inline after its definition, whose end
index is backpatched once its END is seen.

Programs then run in one of two tiers. Every Engine shares a Cache, which
counts executions of each distinct Program. The first threshold executions
(10 by default) are interpreted: the interpreter scans the Program, registers
definitions as it passes them, and recurses into function bodies on RUN. The
next execution compiles the Program into an Artifact, a tree of closures
with every RUN already resolved to its body, and is itself still interpreted.
Every later execution invokes the Artifact directly. Both tiers print the same
values, and fail with the same error after the same output.

Usage:

	flock [options] [FILE...]

Each FILE (or stdin, if none or "-") is executed concurrently with the
others, sharing one Cache; output is printed in argument order. See
--help for options, and Config for the YAML config file format.
*/
package main
