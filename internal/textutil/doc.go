// Package textutil post-processes transcript text: glossary substitution for
// domain terms the engines keep getting wrong, and opt-in redaction of
// personally identifying information.
package textutil
