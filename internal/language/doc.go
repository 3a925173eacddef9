// Package language normalizes language hints. Conversions to the two-letter
// codes the engines expect are consolidated here to avoid duplication across
// the adapter and renderer packages.
package language
