// Package calc implements a calculator engine for typed and keyed arithmetic.
//
// Expressions are infix with + - * / ^, unary negation, parentheses, and the
// functions abs, sin, cos, tan, pow, ln, and sqrt. "-3^2" is "-(3^2)", and
// "x^y^2" is "x^(y^2)". Parse converts an expression to postfix form once,
// and Compile prepares it for evaluation under one of several numeric
// backends: float32, float64, arbitrary-precision decimal, or big.Float.
//
// Variables let you parse an expression once and evaluate it for many inputs:
// look up a variable's handle on an Evaluator, bind a value, and evaluate
// again without reparsing.
//
package calc
