package variants

// Look-alike code points per lowercase latin letter.
var substitutions = map[rune][]string{
	'a': {"а", "α", "ą", "ä", "à", "á", "â", "ã", "å", "ā", "∆", "▲"},
	'e': {"е", "ε", "ę", "ë", "è", "é", "ê", "ē", "€", "∑"},
	'o': {"о", "ο", "ö", "ò", "ó", "ô", "õ", "ø", "ō", "○", "●", "◯", "⭕"},
	'i': {"і", "ι", "ï", "ì", "í", "î", "ī", "!", "|", "¡"},
	'u': {"υ", "ü", "ù", "ú", "û", "ū", "µ"},
	'n': {"и", "ν", "ñ", "ń", "ň", "η"},
	's': {"ѕ", "σ", "ś", "š", "ş", "$"},
	't': {"т", "τ", "ţ", "ť", "†"},
	'r': {"г", "ρ", "ř", "ŕ"},
	'p': {"р", "π", "þ"},
	'c': {"с", "ç", "ć", "č", "©"},
	'h': {"н", "η", "ħ"},
	'x': {"х", "χ", "×", "✗", "✘"},
	'b': {"в", "β", "ъ"},
	'k': {"κ", "ķ"},
	'y': {"у", "ψ", "ý", "ÿ"},
	'm': {"м", "μ"},
	'l': {"ł", "λ", "|"},
	'w': {"ω", "ẅ"},
	'd': {"δ", "đ"},
	'f': {"φ", "ƒ"},
	'g': {"γ", "ğ"},
	'j': {"ј"},
	'q': {"θ"},
	'v': {"ν"},
	'z': {"ζ", "ž", "ź", "ż"},
}

type bracket struct {
	left, right string
}

var brackets = []bracket{
	{"✧", "✧"}, {"♦", "♦"}, {"▲", "▲"}, {"♡", "♡"}, {"☆", "☆"}, {"★", "★"},
	{"⚡", "⚡"}, {"💥", "💥"}, {"🔥", "🔥"}, {"⭐", "⭐"}, {"🌟", "🌟"},
	{"✨", "✨"}, {"💫", "💫"}, {"🔸", "🔸"}, {"🔷", "🔷"}, {"▣", "▣"},
	{"▢", "▢"}, {"▦", "▦"}, {"▧", "▧"}, {"▨", "▨"}, {"▩", "▩"},
	{"☾", "☽"}, {"🌙", "🌙"}, {"◉", "◉"}, {"●", "●"}, {"▪", "▪"},
	{"◇", "◇"}, {"♤", "♤"}, {"☯", "☯"}, {"❖", "❖"}, {"◆", "◆"},
}

// font is an alternate alphabet whose lowercase a-z is a contiguous block
// starting at base.
type font struct {
	name string
	base rune
}

var fonts = []font{
	{name: "bold", base: '𝗮'},
	{name: "italic", base: '𝒂'},
	{name: "script", base: '𝓪'},
	{name: "double", base: '𝕒'},
	{name: "fullwidth", base: 'ａ'},
}

func (f font) mapRune(r rune) (rune, bool) {
	if r < 'a' || r > 'z' {
		return r, false
	}
	return f.base + (r - 'a'), true
}

var spacers = []string{"⚡", "✦", "●", "○", "◇", "♦", "▪", "▫", "◦", "•"}
