// Package render turns templates into finished PDFs: it loads TeX templates
// with renderer-friendly delimiters, writes the rendered .tex into the output
// directory and drives the LaTeX engine over it.
//
// Templates use "<<" and ">>" as action delimiters so TeX braces stay
// untouched, and they fail on missing keys rather than printing zero values
// into a document. The compile step is injectable, which keeps the tests free
// of a TeX installation.
package render
