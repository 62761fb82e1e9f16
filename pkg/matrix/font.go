package matrix

// Glyph is a 5x5 bitmap, one byte per row. The low five bits hold the
// columns with bit 0 as the leftmost one.
type Glyph [Height]byte

// Font supplies glyphs for single byte characters. Characters it cannot
// render come back as the blank space glyph.
type Font interface {
	Glyph(c byte) Glyph
}

const (
	firstChar = 0x20
	lastChar  = 0x7e
)

// DefaultFont is the built-in 5x5 ASCII font.
var DefaultFont Font = builtinFont{}

type builtinFont struct{}

func (builtinFont) Glyph(c byte) Glyph {
	if c < firstChar || c > lastChar {
		c = ' '
	}
	return glyphs[c-firstChar]
}

// Expand turns g into one byte per pixel, row-major, 1 for lit.
func Expand(g Glyph) [Pixels]byte {
	var buf [Pixels]byte
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			if g[r]&(1<<c) != 0 {
				buf[r*Width+c] = 1
			}
		}
	}
	return buf
}

var glyphs = [lastChar - firstChar + 1]Glyph{
	{0x00, 0x00, 0x00, 0x00, 0x00}, // ' '
	{0x04, 0x04, 0x04, 0x00, 0x04}, // '!'
	{0x0a, 0x0a, 0x00, 0x00, 0x00}, // '"'
	{0x0a, 0x1f, 0x0a, 0x1f, 0x0a}, // '#'
	{0x1e, 0x05, 0x0e, 0x14, 0x0f}, // '$'
	{0x13, 0x0b, 0x04, 0x1a, 0x19}, // '%'
	{0x06, 0x09, 0x06, 0x09, 0x16}, // '&'
	{0x04, 0x04, 0x00, 0x00, 0x00}, // '''
	{0x08, 0x04, 0x04, 0x04, 0x08}, // '('
	{0x02, 0x04, 0x04, 0x04, 0x02}, // ')'
	{0x00, 0x0a, 0x04, 0x0a, 0x00}, // '*'
	{0x00, 0x04, 0x0e, 0x04, 0x00}, // '+'
	{0x00, 0x00, 0x00, 0x04, 0x02}, // ','
	{0x00, 0x00, 0x0e, 0x00, 0x00}, // '-'
	{0x00, 0x00, 0x00, 0x00, 0x04}, // '.'
	{0x10, 0x08, 0x04, 0x02, 0x01}, // '/'
	{0x06, 0x09, 0x09, 0x09, 0x06}, // '0'
	{0x04, 0x06, 0x04, 0x04, 0x0e}, // '1'
	{0x07, 0x08, 0x06, 0x01, 0x0f}, // '2'
	{0x0f, 0x08, 0x04, 0x09, 0x06}, // '3'
	{0x0c, 0x0a, 0x09, 0x1f, 0x08}, // '4'
	{0x1f, 0x01, 0x0f, 0x10, 0x0f}, // '5'
	{0x08, 0x04, 0x0e, 0x11, 0x0e}, // '6'
	{0x1f, 0x08, 0x04, 0x02, 0x01}, // '7'
	{0x0e, 0x11, 0x0e, 0x11, 0x0e}, // '8'
	{0x0e, 0x11, 0x0e, 0x04, 0x02}, // '9'
	{0x00, 0x04, 0x00, 0x04, 0x00}, // ':'
	{0x00, 0x04, 0x00, 0x04, 0x02}, // ';'
	{0x08, 0x04, 0x02, 0x04, 0x08}, // '<'
	{0x00, 0x0e, 0x00, 0x0e, 0x00}, // '='
	{0x02, 0x04, 0x08, 0x04, 0x02}, // '>'
	{0x0e, 0x08, 0x04, 0x00, 0x04}, // '?'
	{0x0e, 0x11, 0x15, 0x0d, 0x06}, // '@'
	{0x06, 0x09, 0x0f, 0x09, 0x09}, // 'A'
	{0x07, 0x09, 0x07, 0x09, 0x07}, // 'B'
	{0x0e, 0x01, 0x01, 0x01, 0x0e}, // 'C'
	{0x07, 0x09, 0x09, 0x09, 0x07}, // 'D'
	{0x0f, 0x01, 0x07, 0x01, 0x0f}, // 'E'
	{0x0f, 0x01, 0x07, 0x01, 0x01}, // 'F'
	{0x0e, 0x01, 0x19, 0x11, 0x0e}, // 'G'
	{0x09, 0x09, 0x0f, 0x09, 0x09}, // 'H'
	{0x0e, 0x04, 0x04, 0x04, 0x0e}, // 'I'
	{0x1f, 0x08, 0x08, 0x09, 0x06}, // 'J'
	{0x09, 0x05, 0x03, 0x05, 0x09}, // 'K'
	{0x01, 0x01, 0x01, 0x01, 0x0f}, // 'L'
	{0x11, 0x1b, 0x15, 0x11, 0x11}, // 'M'
	{0x11, 0x13, 0x15, 0x19, 0x11}, // 'N'
	{0x06, 0x09, 0x09, 0x09, 0x06}, // 'O'
	{0x07, 0x09, 0x07, 0x01, 0x01}, // 'P'
	{0x06, 0x09, 0x09, 0x06, 0x18}, // 'Q'
	{0x07, 0x09, 0x07, 0x05, 0x09}, // 'R'
	{0x0e, 0x01, 0x06, 0x08, 0x07}, // 'S'
	{0x1f, 0x04, 0x04, 0x04, 0x04}, // 'T'
	{0x09, 0x09, 0x09, 0x09, 0x06}, // 'U'
	{0x11, 0x11, 0x11, 0x0a, 0x04}, // 'V'
	{0x11, 0x11, 0x15, 0x1b, 0x11}, // 'W'
	{0x09, 0x09, 0x06, 0x09, 0x09}, // 'X'
	{0x11, 0x0a, 0x04, 0x04, 0x04}, // 'Y'
	{0x0f, 0x04, 0x02, 0x01, 0x0f}, // 'Z'
	{0x0e, 0x02, 0x02, 0x02, 0x0e}, // '['
	{0x01, 0x02, 0x04, 0x08, 0x10}, // '\\'
	{0x0e, 0x08, 0x08, 0x08, 0x0e}, // ']'
	{0x04, 0x0a, 0x00, 0x00, 0x00}, // '^'
	{0x00, 0x00, 0x00, 0x00, 0x1f}, // '_'
	{0x02, 0x04, 0x00, 0x00, 0x00}, // '`'
	{0x00, 0x0e, 0x09, 0x09, 0x1e}, // 'a'
	{0x01, 0x01, 0x07, 0x09, 0x07}, // 'b'
	{0x00, 0x0e, 0x01, 0x01, 0x0e}, // 'c'
	{0x08, 0x08, 0x0e, 0x09, 0x0e}, // 'd'
	{0x06, 0x09, 0x07, 0x01, 0x0e}, // 'e'
	{0x0c, 0x02, 0x07, 0x02, 0x02}, // 'f'
	{0x0e, 0x09, 0x0e, 0x08, 0x06}, // 'g'
	{0x01, 0x01, 0x07, 0x09, 0x09}, // 'h'
	{0x02, 0x00, 0x02, 0x02, 0x02}, // 'i'
	{0x08, 0x00, 0x08, 0x09, 0x06}, // 'j'
	{0x01, 0x05, 0x03, 0x05, 0x09}, // 'k'
	{0x02, 0x02, 0x02, 0x02, 0x0c}, // 'l'
	{0x00, 0x0b, 0x15, 0x15, 0x15}, // 'm'
	{0x00, 0x07, 0x09, 0x09, 0x09}, // 'n'
	{0x00, 0x06, 0x09, 0x09, 0x06}, // 'o'
	{0x00, 0x07, 0x09, 0x07, 0x01}, // 'p'
	{0x00, 0x0e, 0x09, 0x0e, 0x08}, // 'q'
	{0x00, 0x0e, 0x01, 0x01, 0x01}, // 'r'
	{0x00, 0x0c, 0x02, 0x04, 0x03}, // 's'
	{0x02, 0x0f, 0x02, 0x02, 0x0c}, // 't'
	{0x00, 0x09, 0x09, 0x09, 0x0e}, // 'u'
	{0x00, 0x11, 0x11, 0x0a, 0x04}, // 'v'
	{0x00, 0x11, 0x15, 0x15, 0x0a}, // 'w'
	{0x00, 0x09, 0x06, 0x06, 0x09}, // 'x'
	{0x00, 0x11, 0x0a, 0x04, 0x03}, // 'y'
	{0x00, 0x0f, 0x04, 0x02, 0x0f}, // 'z'
	{0x0c, 0x04, 0x06, 0x04, 0x0c}, // '{'
	{0x04, 0x04, 0x04, 0x04, 0x04}, // '|'
	{0x06, 0x04, 0x0c, 0x04, 0x06}, // '}'
	{0x00, 0x00, 0x16, 0x0d, 0x00}, // '~'
}
