package parser

import "errors"

// ErrUnsupportedFormat : расширение файла не входит в список поддерживаемых
var ErrUnsupportedFormat = errors.New("неподдерживаемый формат файла")
