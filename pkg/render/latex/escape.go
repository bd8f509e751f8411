package latex

import "strings"

// latexEscaper maps each LaTeX special character to its literal form.
// Backslash, tilde and caret become brace-free control words so the
// result never contains an unescaped special.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash `,
	`~`, `\textasciitilde `,
	`^`, `\textasciicircum `,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

// Escape makes s safe to place in LaTeX running text.
func Escape(s string) string {
	return latexEscaper.Replace(s)
}
